package colname

import (
	"fmt"

	"github.com/carbocation/ldscmunge"
)

// Requirements carries the run options that change what a valid mapping is.
type Requirements struct {
	// A1Inc: A1 is the increasing allele, so no signed statistic is needed.
	A1Inc bool

	// NoAlleles: A1/A2 are not required.
	NoAlleles bool

	// InfoList: several INFO columns are expected and will be averaged.
	InfoList bool

	// NFromFlags: --N, or both --N-cas and --N-con, were given.
	NFromFlags bool
}

// Validate checks a mapping against the file's actual headers before any data
// is read. The returned mapping has NSTUDY removed when a real sample size is
// available, since it is redundant then.
func Validate(m Mapping, headers []string, req Requirements) (Mapping, error) {
	// Every mapped header must be unambiguous within the file
	for _, e := range m {
		count := 0
		for _, h := range headers {
			if h == e.Raw {
				count++
			}
		}
		if count > 1 {
			return nil, fmt.Errorf("%w: found %d columns named %s", ldscmunge.ErrSchemaValidation, count, e.Raw)
		}
	}

	// Different headers may not map to the same field
	for _, f := range m.Fields() {
		if f == Info && req.InfoList {
			continue
		}
		if count := m.Count(f); count > 1 {
			return nil, fmt.Errorf("%w: found %d different %s columns", ldscmunge.ErrSchemaValidation, count, f)
		}
	}

	required := []Field{SNP, P}
	if !req.A1Inc {
		required = append(required, SignedSumstat)
	}
	for _, f := range required {
		if !m.Has(f) {
			return nil, fmt.Errorf("%w: could not find %s column", ldscmunge.ErrSchemaValidation, f)
		}
	}

	nColumns := m.Has(N) || (m.Has(NCas) && m.Has(NCon))
	if !req.NFromFlags && !nColumns {
		return nil, fmt.Errorf("%w: could not determine N", ldscmunge.ErrSchemaValidation)
	}

	if nColumns && m.Has(NStudy) {
		m = m.Without(NStudy)
	}

	if !req.NoAlleles && !(m.Has(A1) && m.Has(A2)) {
		return nil, fmt.Errorf("%w: could not find A1/A2 columns", ldscmunge.ErrSchemaValidation)
	}

	return m, nil
}
