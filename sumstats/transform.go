package sumstats

import (
	"context"
	"log"
	"math"
	"runtime"

	"github.com/carbocation/ldscmunge/colname"
	"github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mathext"
	"gopkg.in/guregu/null.v3"
)

// MedianTolerance is how far the median of the signed statistic may sit from
// its null value before the column is reported as possibly mislabeled.
const MedianTolerance = 0.1

// PToZ returns the unsigned Z score of a two-sided p-value,
// sqrt(ChiSquared(1).Quantile(1 - p)). The upper tail is inverted directly so
// that p-values far below machine epsilon keep their precision. Values
// outside [0, 1] have no Z.
func PToZ(p float64) (float64, bool) {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return math.NaN(), false
	}

	// ChiSquared(k) is Gamma(k/2, 2)
	return math.Sqrt(2 * mathext.GammaIncRegCompInv(0.5, p)), true
}

// cancelCheckInterval is how many rows a worker converts between checks of
// its context.
const cancelCheckInterval = 1 << 14

// UnsignedZ converts a column of p-values to unsigned Z scores. The column is
// split into contiguous partitions that are computed concurrently and then
// reassembled in row order. Cancelling ctx stops every worker.
func UnsignedZ(ctx context.Context, p []null.Float, workers int) ([]null.Float, error) {
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	if workers > len(p) {
		workers = len(p)
	}
	if workers < 1 {
		return []null.Float{}, ctx.Err()
	}

	size := (len(p) + workers - 1) / workers
	parts := make([][]null.Float, workers)

	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		w := w
		start, end := w*size, (w+1)*size
		if end > len(p) {
			end = len(p)
		}
		if start >= end {
			continue
		}
		view := p[start:end]

		g.Go(func() error {
			part := make([]null.Float, len(view))
			for i, v := range view {
				if i%cancelCheckInterval == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				if !v.Valid {
					continue
				}
				if z, ok := PToZ(v.Float64); ok {
					part[i] = null.FloatFrom(z)
				}
			}
			parts[w] = part
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]null.Float, 0, len(p))
	for _, part := range parts {
		out = append(out, part...)
	}

	return out, nil
}

// ApplySign negates z wherever the signed statistic is below its null value.
// Rows where either value is missing get NaN, which is written as empty.
func ApplySign(z, signed []null.Float, nullValue float64) []null.Float {
	out := make([]null.Float, len(z))
	for i := range z {
		switch {
		case !z[i].Valid || !signed[i].Valid:
			out[i] = null.FloatFrom(math.NaN())
		case signed[i].Float64 < nullValue:
			out[i] = null.FloatFrom(-z[i].Float64)
		default:
			out[i] = z[i]
		}
	}

	return out
}

// TransformStatistic replaces P with Z. Unless A1 is declared the increasing
// allele, Z is then signed by the SIGNED_SUMSTAT column, which is dropped.
func TransformStatistic(ctx context.Context, f *Frame, sign colname.Sign, a1Inc bool, workers int, logger *log.Logger) (*Frame, error) {
	z, err := UnsignedZ(ctx, f.Col(string(colname.P)).Num, workers)
	if err != nil {
		return nil, err
	}
	f.Drop(string(colname.P))

	if !a1Inc {
		signed := f.Col(string(colname.SignedSumstat))
		nullValue := sign.Null.Float64

		median, err := stats.Median(stats.Float64Data(validValues(signed.Num)))
		if err != nil {
			logger.Printf("WARNING: could not compute the median of %s: %v\n", sign.Column, err)
		} else if math.Abs(median-nullValue) > MedianTolerance {
			logger.Printf("WARNING: median value of %s is %g (should be close to %g). This column may be mislabeled.\n", sign.Column, median, nullValue)
		} else {
			logger.Printf("Median value of %s was %g, which seems sensible.\n", sign.Column, median)
		}

		z = ApplySign(z, signed.Num, nullValue)
		f.Drop(string(colname.SignedSumstat))
	}

	zc := NewNumColumn("Z", z)
	f.Set(zc)

	return f, nil
}
