package sumstats

import (
	"bytes"
	"log"
	"math"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/carbocation/runningvariance"
	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// GenomeWideChiSq approximates the chi-square of p = 5e-8.
const GenomeWideChiSq = 29

// Metadata summarizes the association signal left after munging.
type Metadata struct {
	MeanZ       float64
	SDZ         float64
	MeanChiSq   float64
	LambdaGC    float64
	MaxChiSq    float64
	Significant int
	SNPs        int
}

// Summarize computes chi-square statistics over the finite Z scores in the
// frame.
func Summarize(f *Frame) Metadata {
	z := f.Col("Z")
	if z == nil {
		return Metadata{}
	}

	rs := runningvariance.NewRunningStat()
	chisq := make([]float64, 0, len(z.Num))
	for _, v := range z.Num {
		if v.Valid && !math.IsNaN(v.Float64) && !math.IsInf(v.Float64, 0) {
			rs.Push(v.Float64)
			chisq = append(chisq, v.Float64*v.Float64)
		}
	}

	md := Metadata{SNPs: len(chisq)}
	if len(chisq) == 0 {
		return md
	}

	// Z should be centered on zero unless the signed statistic is mislabeled
	md.MeanZ = rs.Mean()
	md.SDZ = rs.StandardDeviation()

	md.MeanChiSq = stat.Mean(chisq, nil)
	md.MaxChiSq = floats.Max(chisq)
	if median, err := stats.Median(chisq); err == nil {
		md.LambdaGC = median / 0.4549
	}
	for _, c := range chisq {
		if c > GenomeWideChiSq {
			md.Significant++
		}
	}

	return md
}

// Log writes the metadata block, and optionally a histogram of chi-square
// values, to the run log.
func (md Metadata) Log(f *Frame, plot bool, logger *log.Logger) {
	logger.Println("Metadata:")
	logger.Printf("Mean Z = %.3f (SD %.3f)\n", md.MeanZ, md.SDZ)
	logger.Printf("Mean chi^2 = %.3f\n", md.MeanChiSq)
	if md.MeanChiSq < 1.02 {
		logger.Println("WARNING: mean chi^2 may be too small.")
	}
	logger.Printf("Lambda GC = %.3f\n", md.LambdaGC)
	logger.Printf("Max chi^2 = %.3f\n", md.MaxChiSq)
	logger.Printf("%d Genome-wide significant SNPs (some may have been removed by filtering).\n", md.Significant)

	if !plot || md.SNPs == 0 {
		return
	}

	chisq := make([]float64, 0, md.SNPs)
	for _, v := range f.Col("Z").Num {
		if v.Valid && !math.IsNaN(v.Float64) && !math.IsInf(v.Float64, 0) {
			chisq = append(chisq, v.Float64*v.Float64)
		}
	}

	var buf bytes.Buffer
	if err := histogram.Fprint(&buf, histogram.Hist(20, chisq), histogram.Linear(40)); err != nil {
		logger.Println("Could not plot chi^2:", err)
		return
	}
	logger.Printf("Distribution of chi^2:\n%s", buf.String())
}
