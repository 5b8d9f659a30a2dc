package colname

// Synonym ties one canonicalized header spelling to the field it denotes.
type Synonym struct {
	Spelling string
	Field    Field
}

// DefaultSynonyms lists the header spellings that are understood without any
// flags. Earlier entries have priority when listing, but spellings are unique
// so order never changes the resolved mapping.
var DefaultSynonyms = []Synonym{
	// RS NUMBER
	{"SNP", SNP},
	{"MARKERNAME", SNP},
	{"SNPID", SNP},
	{"RS", SNP},
	{"RSID", SNP},
	{"RS_NUMBER", SNP},
	{"RS_NUMBERS", SNP},

	// NUMBER OF STUDIES
	{"NSTUDY", NStudy},
	{"N_STUDY", NStudy},
	{"NSTUDIES", NStudy},
	{"N_STUDIES", NStudy},

	// P-VALUE
	{"P", P},
	{"PVALUE", P},
	{"P_VALUE", P},
	{"PVAL", P},
	{"P_VAL", P},
	{"GC_PVALUE", P},

	// ALLELE 1
	{"A1", A1},
	{"ALLELE1", A1},
	{"ALLELE_1", A1},
	{"EFFECT_ALLELE", A1},
	{"REFERENCE_ALLELE", A1},
	{"INC_ALLELE", A1},
	{"EA", A1},

	// ALLELE 2
	{"A2", A2},
	{"ALLELE2", A2},
	{"ALLELE_2", A2},
	{"OTHER_ALLELE", A2},
	{"NON_EFFECT_ALLELE", A2},
	{"DEC_ALLELE", A2},
	{"NEA", A2},

	// N
	{"N", N},
	{"NCASE", NCas},
	{"CASES_N", NCas},
	{"N_CASE", NCas},
	{"N_CASES", NCas},
	{"N_CAS", NCas},
	{"N_CONTROLS", NCon},
	{"N_CON", NCon},
	{"NCONTROL", NCon},
	{"CONTROLS_N", NCon},
	{"N_CONTROL", NCon},
	{"WEIGHT", N}, // metal does this. possibly risky.

	// SIGNED STATISTICS
	{"ZSCORE", Z},
	{"Z_SCORE", Z},
	{"GC_ZSCORE", Z},
	{"Z", Z},
	{"OR", OR},
	{"B", Beta},
	{"BETA", Beta},
	{"LOG_ODDS", LogOdds},
	{"EFFECTS", Beta},
	{"EFFECT", Beta},
	{"SIGNED_SUMSTAT", SignedSumstat},

	// INFO
	{"INFO", Info},

	// MAF
	{"EAF", Frq},
	{"FRQ", Frq},
	{"MAF", Frq},
	{"FRQ_U", Frq},
	{"F_U", Frq},
}

// nullValues gives, per sign-bearing field, the value that means "no effect".
var nullValues = map[Field]float64{
	LogOdds: 0,
	Beta:    0,
	OR:      1,
	Z:       0,
}

// NullValue returns the no-effect value of a sign-bearing field.
func NullValue(f Field) (float64, bool) {
	v, ok := nullValues[f]
	return v, ok
}

// HasNullValue reports whether f carries an implicit effect direction.
func (f Field) HasNullValue() bool {
	_, ok := nullValues[f]
	return ok
}
