package sumstats

import (
	"fmt"
	"log"
	"math"
	"sort"

	"github.com/carbocation/ldscmunge"
	"github.com/carbocation/ldscmunge/colname"
	"gonum.org/v1/gonum/stat"
	"gopkg.in/guregu/null.v3"
)

// SampleSizeOptions are the user's sample size flags. Unset values are
// invalid null.Floats.
type SampleSizeOptions struct {
	N         null.Float
	NCas      null.Float
	NCon      null.Float
	NMin      null.Float
	NStudyMin null.Float
}

// ResolveSampleSize leaves the frame with a single N column and removes rows
// whose sample size is too small to be trusted:
//   - N_CAS and N_CON columns are replaced by an effective N (see
//     RescaleCaseControl);
//   - with an N column, rows with N < n-min are removed, where n-min defaults
//     to the 90th percentile of N divided by 1.5;
//   - otherwise, with an NSTUDY column, rows with fewer than nstudy-min
//     studies (default: the most studies seen) are removed;
//   - if there is still no N column, it is filled in from --N or
//     --N-cas + --N-con.
func ResolveSampleSize(f *Frame, o SampleSizeOptions, d *Drops, logger *log.Logger) (*Frame, error) {
	nCas, nCon := f.Col(string(colname.NCas)), f.Col(string(colname.NCon))
	if nCas != nil && nCon != nil {
		n := NewNumColumn(string(colname.N), RescaleCaseControl(nCas.Num, nCon.Num))
		n.Field = colname.N
		f.Set(n)
		f.Drop(string(colname.NCas))
		f.Drop(string(colname.NCon))
	}

	if n := f.Col(string(colname.N)); n != nil {
		nMin := o.NMin.Float64
		if !o.NMin.Valid {
			nMin = quantile(0.9, validValues(n.Num)) / 1.5
		}

		before := f.Len()
		f, _ = f.filterBy(func(i int) bool {
			v := n.Num[i]
			return v.Valid && v.Float64 >= nMin
		})
		d.Add(DropN, before-f.Len())
		logger.Printf("Removed %d SNPs with N < %g (%d SNPs remain).\n", before-f.Len(), nMin, f.Len())
	} else if nstudy := f.Col(string(colname.NStudy)); nstudy != nil {
		nstudyMin := o.NStudyMin.Float64
		if !o.NStudyMin.Valid {
			nstudyMin = math.Inf(-1)
			for _, v := range validValues(nstudy.Num) {
				nstudyMin = math.Max(nstudyMin, v)
			}
		}

		before := f.Len()
		f, _ = f.filterBy(func(i int) bool {
			v := nstudy.Num[i]
			return v.Valid && v.Float64 >= nstudyMin
		})
		f.Drop(string(colname.NStudy))
		d.Add(DropNStudy, before-f.Len())
		logger.Printf("Removed %d SNPs with NSTUDY < %g (%d SNPs remain).\n", before-f.Len(), nstudyMin, f.Len())
	}

	if !f.Has(string(colname.N)) {
		var n float64
		switch {
		case o.N.Valid:
			n = o.N.Float64
			logger.Printf("Using N = %g\n", n)
		case o.NCas.Valid && o.NCon.Valid:
			n = o.NCas.Float64 + o.NCon.Float64
			logger.Printf("Using N_cas = %g; N_con = %g\n", o.NCas.Float64, o.NCon.Float64)
		default:
			return nil, fmt.Errorf("%w: cannot determine N. This message indicates a bug: N should have been checked before reading", ldscmunge.ErrInternalInvariant)
		}

		constant := make([]null.Float, f.Len())
		for i := range constant {
			constant[i] = null.FloatFrom(n)
		}
		c := NewNumColumn(string(colname.N), constant)
		c.Field = colname.N
		f.Set(c)
	}

	return f, nil
}

// RescaleCaseControl converts per-variant case and control counts into an
// effective sample size. With N = N_CAS + N_CON and the case proportion
// P = N_CAS / N, the mean P among the variants with the largest N (P_max)
// defines the study design, and each variant gets N_CAS / P_max.
func RescaleCaseControl(nCas, nCon []null.Float) []null.Float {
	total := make([]null.Float, len(nCas))
	maxN := math.Inf(-1)
	for i := range nCas {
		if nCas[i].Valid && nCon[i].Valid {
			total[i] = null.FloatFrom(nCas[i].Float64 + nCon[i].Float64)
			maxN = math.Max(maxN, total[i].Float64)
		}
	}

	proportions := make([]float64, 0)
	for i := range total {
		if total[i].Valid && total[i].Float64 == maxN {
			proportions = append(proportions, nCas[i].Float64/total[i].Float64)
		}
	}

	out := make([]null.Float, len(nCas))
	if len(proportions) == 0 {
		return out
	}

	pMax := stat.Mean(proportions, nil)
	for i := range nCas {
		if total[i].Valid {
			out[i] = null.FloatFrom(nCas[i].Float64 / pMax)
		}
	}

	return out
}

func validValues(values []null.Float) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if v.Valid && !math.IsNaN(v.Float64) {
			out = append(out, v.Float64)
		}
	}

	return out
}

// quantile interpolates linearly between the closest ranks, i.e. position
// q*(n-1) of the sorted data.
func quantile(q float64, x []float64) float64 {
	if len(x) == 0 {
		return math.NaN()
	}

	sorted := make([]float64, len(x))
	copy(sorted, x)
	sort.Float64s(sorted)

	h := q * float64(len(sorted)-1)
	lo := math.Floor(h)
	i := int(lo)
	if i+1 >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	return sorted[i] + (h-lo)*(sorted[i+1]-sorted[i])
}
