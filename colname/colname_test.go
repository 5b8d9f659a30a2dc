package colname

import (
	"errors"
	"testing"

	"github.com/carbocation/ldscmunge"
)

func TestCanonicalize(t *testing.T) {
	for _, v := range []struct {
		in       string
		expected string
	}{
		{"beta-value\n", "BETA_VALUE"},
		{"BETA.VALUE", "BETA_VALUE"},
		{"  p.value ", "P_VALUE"},
		{"Allele1", "ALLELE1"},
		{"", ""},
	} {
		if got := Canonicalize(v.in); got != v.expected {
			t.Errorf("Canonicalize(%q): expected %q, got %q", v.in, v.expected, got)
		}
		if once, twice := Canonicalize(v.in), Canonicalize(Canonicalize(v.in)); once != twice {
			t.Errorf("Canonicalize is not idempotent for %q: %q vs %q", v.in, once, twice)
		}
	}
}

func TestDefaultSynonymsAreCanonicalAndUnique(t *testing.T) {
	seen := make(map[string]struct{})
	for _, s := range DefaultSynonyms {
		if Canonicalize(s.Spelling) != s.Spelling {
			t.Errorf("Spelling %q is not canonical", s.Spelling)
		}
		if _, dup := seen[s.Spelling]; dup {
			t.Errorf("Spelling %q is listed twice", s.Spelling)
		}
		seen[s.Spelling] = struct{}{}
	}
}

func TestIgnoreBeatsOverrideAndDefault(t *testing.T) {
	res, err := Resolve(Overrides{P: "mypval"}, []string{"MyPval", "beta"}, false)
	if err != nil {
		t.Fatal(err)
	}

	if f, ok := res.Lookup("mypval"); ok {
		t.Errorf("Ignored override header resolved to %s", f)
	}
	if f, ok := res.Lookup("BETA"); ok {
		t.Errorf("Ignored default header resolved to %s", f)
	}
	if f, ok := res.Lookup("P"); !ok || f != P {
		t.Errorf("Expected default P to survive, got %s (%v)", f, ok)
	}
}

func TestOverrideBeatsDefault(t *testing.T) {
	// FRQ is a default spelling for Frq; claim it for INFO instead.
	res, err := Resolve(Overrides{Info: "frq"}, nil, false)
	if err != nil {
		t.Fatal(err)
	}

	if f, _ := res.Lookup("FRQ"); f != Info {
		t.Errorf("Expected override to map FRQ to INFO, got %s", f)
	}
}

func TestFirstOverrideWins(t *testing.T) {
	res, err := Resolve(Overrides{SNP: "id", P: "id"}, nil, false)
	if err != nil {
		t.Fatal(err)
	}

	// NSTUDY, SNP, N... is the claim order, so SNP is first.
	if f, _ := res.Lookup("ID"); f != SNP {
		t.Errorf("Expected ID to map to SNP, got %s", f)
	}
}

func TestExplicitSignDropsSignedDefaults(t *testing.T) {
	for _, o := range []struct {
		name      string
		overrides Overrides
		a1Inc     bool
	}{
		{"signed-sumstats", Overrides{SignedSumstats: "effect_size,0"}, false},
		{"a1-inc", Overrides{}, true},
	} {
		res, err := Resolve(o.overrides, nil, o.a1Inc)
		if err != nil {
			t.Fatal(err)
		}
		for _, h := range []string{"BETA", "OR", "Z", "LOG_ODDS", "ZSCORE"} {
			if f, ok := res.Lookup(h); ok {
				t.Errorf("%s: expected %s to be unmapped, got %s", o.name, h, f)
			}
		}
	}
}

func TestParseOverridesErrors(t *testing.T) {
	for _, o := range []Overrides{
		{SignedSumstats: "BETA"},
		{SignedSumstats: "BETA,zero"},
		{SignedSumstats: "BETA,0,1"},
		{SignedSumstats: ",0"},
		{InfoList: ", ,"},
	} {
		if _, _, err := ParseOverrides(o); !errors.Is(err, ldscmunge.ErrSchemaResolution) {
			t.Errorf("%+v: expected a schema resolution error, got %v", o, err)
		}
	}

	claims, null, err := ParseOverrides(Overrides{SignedSumstats: "log.or,0", InfoList: "info1,info2"})
	if err != nil {
		t.Fatal(err)
	}
	if !null.Valid || null.Float64 != 0 {
		t.Errorf("Expected null value 0, got %+v", null)
	}
	if len(claims) != 3 || claims[2].Spelling != "LOG_OR" || claims[2].Field != SignedSumstat {
		t.Errorf("Unexpected claims %+v", claims)
	}
}

func TestDetectSign(t *testing.T) {
	res, err := Resolve(Overrides{}, nil, false)
	if err != nil {
		t.Fatal(err)
	}

	m := res.Translate([]string{"SNP", "A1", "A2", "OR", "P", "N"})
	m, sign, err := res.DetectSign(m)
	if err != nil {
		t.Fatal(err)
	}
	if sign.Column != "OR" || !sign.Null.Valid || sign.Null.Float64 != 1 {
		t.Errorf("Unexpected sign %+v", sign)
	}
	if f, _ := m.Lookup("OR"); f != SignedSumstat {
		t.Errorf("Expected OR to be relabeled, got %s", f)
	}

	if _, _, err := res.DetectSign(res.Translate([]string{"SNP", "P"})); !errors.Is(err, ldscmunge.ErrSchemaResolution) {
		t.Errorf("Expected an error with no signed column, got %v", err)
	}

	if _, _, err := res.DetectSign(res.Translate([]string{"SNP", "P", "BETA", "Z"})); !errors.Is(err, ldscmunge.ErrSchemaResolution) {
		t.Errorf("Expected an error with two signed columns, got %v", err)
	}

	// Ignoring one of them resolves the ambiguity
	res, err = Resolve(Overrides{}, []string{"z"}, false)
	if err != nil {
		t.Fatal(err)
	}
	if _, sign, err := res.DetectSign(res.Translate([]string{"SNP", "P", "BETA", "Z"})); err != nil || sign.Column != "BETA" {
		t.Errorf("Expected BETA after ignoring Z, got %+v (%v)", sign, err)
	}
}

func TestTranslateKeepsRawHeaders(t *testing.T) {
	res, err := Resolve(Overrides{}, nil, false)
	if err != nil {
		t.Fatal(err)
	}

	m := res.Translate([]string{"MarkerName", "Allele1", "Allele2", "p.value", "Effect", "Weight", "Chr"})
	expected := Mapping{
		{"MarkerName", SNP},
		{"Allele1", A1},
		{"Allele2", A2},
		{"p.value", P},
		{"Effect", Beta},
		{"Weight", N},
	}
	if len(m) != len(expected) {
		t.Fatalf("Expected %d entries, got %+v", len(expected), m)
	}
	for i := range expected {
		if m[i] != expected[i] {
			t.Errorf("Entry %d: expected %+v, got %+v", i, expected[i], m[i])
		}
	}
}

func TestValidate(t *testing.T) {
	base := Mapping{{"SNP", SNP}, {"A1", A1}, {"A2", A2}, {"P", P}, {"BETA", SignedSumstat}, {"N", N}}
	headers := []string{"SNP", "A1", "A2", "P", "BETA", "N"}

	if _, err := Validate(base, headers, Requirements{}); err != nil {
		t.Errorf("Expected a valid mapping, got %v", err)
	}

	for _, v := range []struct {
		name    string
		m       Mapping
		headers []string
		req     Requirements
	}{
		{
			"two P columns",
			append(base.clone(), Entry{"PVAL", P}),
			append(append([]string{}, headers...), "PVAL"),
			Requirements{},
		},
		{
			"duplicated header",
			base,
			append(append([]string{}, headers...), "P"),
			Requirements{},
		},
		{
			"no N",
			base.Without(N),
			headers[:5],
			Requirements{},
		},
		{
			"only N_CAS",
			append(base.Without(N), Entry{"NCASE", NCas}),
			append(append([]string{}, headers[:5]...), "NCASE"),
			Requirements{},
		},
		{
			"no alleles",
			base.Without(A2),
			headers,
			Requirements{},
		},
		{
			"no signed statistic",
			base.Without(SignedSumstat),
			headers,
			Requirements{},
		},
		{
			"no SNP",
			base.Without(SNP),
			headers,
			Requirements{},
		},
	} {
		if _, err := Validate(v.m, v.headers, v.req); !errors.Is(err, ldscmunge.ErrSchemaValidation) {
			t.Errorf("%s: expected a validation error, got %v", v.name, err)
		}
	}
}

func TestValidateRelaxations(t *testing.T) {
	m := Mapping{{"SNP", SNP}, {"P", P}, {"INFO1", Info}, {"INFO2", Info}}
	headers := []string{"SNP", "P", "INFO1", "INFO2"}

	req := Requirements{A1Inc: true, NoAlleles: true, InfoList: true, NFromFlags: true}
	if _, err := Validate(m, headers, req); err != nil {
		t.Errorf("Expected a valid mapping, got %v", err)
	}

	req.InfoList = false
	if _, err := Validate(m, headers, req); !errors.Is(err, ldscmunge.ErrSchemaValidation) {
		t.Errorf("Expected two INFO columns to be rejected without --info-list, got %v", err)
	}
}

func TestValidateDropsRedundantNStudy(t *testing.T) {
	m := Mapping{{"SNP", SNP}, {"A1", A1}, {"A2", A2}, {"P", P}, {"Z", SignedSumstat}, {"NCAS", NCas}, {"NCON", NCon}, {"NSTUDY", NStudy}}
	headers := []string{"SNP", "A1", "A2", "P", "Z", "NCAS", "NCON", "NSTUDY"}

	out, err := Validate(m, headers, Requirements{})
	if err != nil {
		t.Fatal(err)
	}
	if out.Has(NStudy) {
		t.Error("Expected NSTUDY to be dropped when N_CAS and N_CON exist")
	}

	// With only a flag-provided N, NSTUDY is still needed for filtering
	m = Mapping{{"SNP", SNP}, {"A1", A1}, {"A2", A2}, {"P", P}, {"Z", SignedSumstat}, {"NSTUDY", NStudy}}
	out, err = Validate(m, headers, Requirements{NFromFlags: true})
	if err != nil {
		t.Fatal(err)
	}
	if !out.Has(NStudy) {
		t.Error("Expected NSTUDY to be kept when N comes from flags only")
	}
}
