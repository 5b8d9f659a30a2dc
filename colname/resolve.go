package colname

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/carbocation/ldscmunge"
	"gopkg.in/guregu/null.v3"
)

// Overrides holds user supplied header names, one per field. Empty strings
// mean "not supplied".
type Overrides struct {
	SNP    string
	N      string
	NCas   string
	NCon   string
	A1     string
	A2     string
	P      string
	Frq    string
	Info   string
	NStudy string

	// InfoList is a comma-separated list of INFO columns whose mean is
	// filtered on.
	InfoList string

	// SignedSumstats is "header,null", e.g. "Z,0" or "OR,1".
	SignedSumstats string
}

// Claim assigns a canonicalized spelling to a field.
type Claim struct {
	Spelling string
	Field    Field
}

// ParseOverrides turns the user's overrides into ordered claims. It also
// returns the null value given with --signed-sumstats, if any.
func ParseOverrides(o Overrides) ([]Claim, null.Float, error) {
	claims := make([]Claim, 0)

	for _, v := range []struct {
		header string
		field  Field
	}{
		{o.NStudy, NStudy},
		{o.SNP, SNP},
		{o.N, N},
		{o.NCas, NCas},
		{o.NCon, NCon},
		{o.A1, A1},
		{o.A2, A2},
		{o.P, P},
		{o.Frq, Frq},
		{o.Info, Info},
	} {
		if v.header != "" {
			claims = append(claims, Claim{Canonicalize(v.header), v.field})
		}
	}

	if o.InfoList != "" {
		infos := make([]string, 0)
		for _, h := range strings.Split(o.InfoList, ",") {
			if h = Canonicalize(h); h != "" {
				infos = append(infos, h)
			}
		}
		if len(infos) == 0 {
			return nil, null.Float{}, fmt.Errorf("%w: the argument to --info-list should be a comma-separated list of column names", ldscmunge.ErrSchemaResolution)
		}
		for _, h := range infos {
			claims = append(claims, Claim{h, Info})
		}
	}

	var signedNull null.Float
	if o.SignedSumstats != "" {
		parts := strings.Split(o.SignedSumstats, ",")
		if len(parts) != 2 || Canonicalize(parts[0]) == "" {
			return nil, null.Float{}, fmt.Errorf("%w: the argument to --signed-sumstats should be column header comma number", ldscmunge.ErrSchemaResolution)
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return nil, null.Float{}, fmt.Errorf("%w: the argument to --signed-sumstats should be column header comma number", ldscmunge.ErrSchemaResolution)
		}
		signedNull = null.FloatFrom(value)
		claims = append(claims, Claim{Canonicalize(parts[0]), SignedSumstat})
	}

	return claims, signedNull, nil
}

// Resolution is the merged spelling -> field table for one run.
type Resolution struct {
	Claims []Claim

	// SignedNull is the no-effect value from --signed-sumstats.
	SignedNull null.Float
	A1Inc      bool
	InfoList   bool

	index map[string]Field
}

// Resolve merges the ignore list, the user's overrides and the default
// synonyms. Priority is
//  1. ignore everything in ignore
//  2. use every override that is not ignored (first one wins)
//  3. use every default that is neither ignored nor already claimed
//
// When the user names the signed statistic, or declares A1 the increasing
// allele, the sign-bearing defaults are left out so they cannot compete with
// the explicit choice.
func Resolve(o Overrides, ignore []string, a1Inc bool) (*Resolution, error) {
	overrides, signedNull, err := ParseOverrides(o)
	if err != nil {
		return nil, err
	}

	ignored := make(map[string]struct{})
	for _, h := range canonicalizeAll(ignore) {
		if h != "" {
			ignored[h] = struct{}{}
		}
	}

	res := &Resolution{
		Claims:     make([]Claim, 0, len(overrides)+len(DefaultSynonyms)),
		SignedNull: signedNull,
		A1Inc:      a1Inc,
		InfoList:   o.InfoList != "",
		index:      make(map[string]Field),
	}

	claim := func(c Claim) {
		if _, skip := ignored[c.Spelling]; skip {
			return
		}
		if _, taken := res.index[c.Spelling]; taken {
			return
		}
		res.index[c.Spelling] = c.Field
		res.Claims = append(res.Claims, c)
	}

	for _, c := range overrides {
		claim(c)
	}

	dropSigned := o.SignedSumstats != "" || a1Inc
	for _, s := range DefaultSynonyms {
		if dropSigned && s.Field.HasNullValue() {
			continue
		}
		claim(Claim{s.Spelling, s.Field})
	}

	return res, nil
}

// Lookup returns the field a raw header resolves to.
func (r *Resolution) Lookup(header string) (Field, bool) {
	f, ok := r.index[Canonicalize(header)]
	return f, ok
}

// ExplicitSign reports whether --signed-sumstats was given.
func (r *Resolution) ExplicitSign() bool {
	return r.SignedNull.Valid
}

// Translate maps the headers of a file, in file order. A raw header that
// occurs more than once appears once here; Validate reports the duplication.
func (r *Resolution) Translate(headers []string) Mapping {
	out := make(Mapping, 0, len(headers))
	seen := make(map[string]struct{})
	for _, h := range headers {
		if _, dup := seen[h]; dup {
			continue
		}
		seen[h] = struct{}{}

		if f, ok := r.Lookup(h); ok {
			out = append(out, Entry{Raw: h, Field: f})
		}
	}

	return out
}

// Sign describes the column that carries effect direction.
type Sign struct {
	// Column is the raw header, empty when A1 is declared increasing.
	Column string

	// Null is the no-effect value of Column.
	Null null.Float
}

// DetectSign finds the signed statistic. With --signed-sumstats or --a1-inc
// the choice is already made. Otherwise exactly one mapped column must carry
// an implicit null value; it is relabeled SIGNED_SUMSTAT.
func (r *Resolution) DetectSign(m Mapping) (Mapping, Sign, error) {
	if r.A1Inc {
		return m, Sign{}, nil
	}

	if r.ExplicitSign() {
		sign := Sign{Null: r.SignedNull}
		if raws := m.Raws(SignedSumstat); len(raws) > 0 {
			sign.Column = raws[0]
		}
		return m, sign, nil
	}

	candidates := make([]int, 0)
	for i, e := range m {
		if e.Field.HasNullValue() {
			candidates = append(candidates, i)
		}
	}

	switch len(candidates) {
	case 0:
		return nil, Sign{}, fmt.Errorf("%w: could not find a signed summary statistic column", ldscmunge.ErrSchemaResolution)
	case 1:
	default:
		names := make([]string, 0, len(candidates))
		for _, i := range candidates {
			names = append(names, m[i].Raw)
		}
		return nil, Sign{}, fmt.Errorf("%w: too many signed sumstat columns (%s). Specify which to ignore with the --ignore flag", ldscmunge.ErrSchemaResolution, strings.Join(names, ", "))
	}

	i := candidates[0]
	nullValue, _ := NullValue(m[i].Field)

	out := m.clone()
	out[i].Field = SignedSumstat

	return out, Sign{Column: m[i].Raw, Null: null.FloatFrom(nullValue)}, nil
}
