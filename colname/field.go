package colname

// Field is a canonical column of munged summary statistics.
type Field string

const (
	SNP           Field = "SNP"
	A1            Field = "A1"
	A2            Field = "A2"
	P             Field = "P"
	N             Field = "N"
	NCas          Field = "N_CAS"
	NCon          Field = "N_CON"
	NStudy        Field = "NSTUDY"
	Info          Field = "INFO"
	Frq           Field = "FRQ"
	SignedSumstat Field = "SIGNED_SUMSTAT"

	// Sign-bearing spellings. They only exist until the signed statistic has
	// been detected, at which point the winner becomes SignedSumstat.
	Z       Field = "Z"
	OR      Field = "OR"
	Beta    Field = "BETA"
	LogOdds Field = "LOG_ODDS"
)

var descriptions = map[Field]string{
	SNP:           "Variant ID (e.g., rs number)",
	P:             "p-Value",
	A1:            "Allele 1, interpreted as ref allele for signed sumstat.",
	A2:            "Allele 2, interpreted as non-ref allele for signed sumstat.",
	N:             "Sample size",
	NCas:          "Number of cases",
	NCon:          "Number of controls",
	Z:             "Z-score (0 --> no effect; above 0 --> A1 is trait/risk increasing)",
	OR:            "Odds ratio (1 --> no effect; above 1 --> A1 is risk increasing)",
	Beta:          "[linear/logistic] regression coefficient (0 --> no effect; above 0 --> A1 is trait/risk increasing)",
	LogOdds:       "Log odds ratio (0 --> no effect; above 0 --> A1 is risk increasing)",
	Info:          "INFO score (imputation quality; higher --> better imputation)",
	Frq:           "Allele frequency",
	SignedSumstat: "Directional summary statistic as specified by --signed-sumstats.",
	NStudy:        "Number of studies in which the SNP was genotyped.",
}

// Describe returns a human readable explanation of the field.
func (f Field) Describe() string {
	return descriptions[f]
}

// Numeric reports whether values of f are parsed as numbers. Identifiers and
// alleles are the only text fields.
func (f Field) Numeric() bool {
	switch f {
	case SNP, A1, A2:
		return false
	}

	return true
}

// Integral reports whether f holds counts. Counts are read as floats first so
// that values like 7e05 parse, then truncated.
func (f Field) Integral() bool {
	switch f {
	case N, NCas, NCon:
		return true
	}

	return false
}
