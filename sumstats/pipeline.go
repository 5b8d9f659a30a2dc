package sumstats

import (
	"context"
	"fmt"
	"io"
	"log"
	"math"
	"strings"

	"github.com/carbocation/ldscmunge"
	"github.com/carbocation/ldscmunge/colname"
	"gopkg.in/guregu/null.v3"
)

// Options configures one munging run. Unset sample size options are invalid
// null.Floats.
type Options struct {
	Sumstats string
	Out      string

	Columns colname.Overrides
	Ignore  []string

	InfoMin float64
	MafMin  float64

	N         null.Float
	NCas      null.Float
	NCon      null.Float
	NMin      null.Float
	NStudyMin null.Float

	A1Inc        bool
	NoAlleles    bool
	KeepMAF      bool
	MergeAlleles string

	ChunkSize int
	Threads   int
	PlotChiSq bool

	Logger *log.Logger
}

// DefaultOptions returns the LDSC defaults.
func DefaultOptions() Options {
	return Options{
		InfoMin:   0.9,
		MafMin:    0.01,
		ChunkSize: DefaultChunkSize,
	}
}

// Validate rejects option combinations that can never produce a run.
func (o Options) Validate() error {
	if o.Sumstats == "" {
		return fmt.Errorf("%w: --sumstats is required", ldscmunge.ErrConfigurationConflict)
	}
	if o.NoAlleles && o.MergeAlleles != "" {
		return fmt.Errorf("%w: --no-alleles and --merge-alleles are not compatible", ldscmunge.ErrConfigurationConflict)
	}
	if o.A1Inc && o.Columns.SignedSumstats != "" {
		return fmt.Errorf("%w: --a1-inc and --signed-sumstats are not compatible", ldscmunge.ErrConfigurationConflict)
	}
	if o.ChunkSize <= 0 {
		return fmt.Errorf("%w: --chunksize must be positive, got %d", ldscmunge.ErrConfigurationConflict, o.ChunkSize)
	}

	return nil
}

func (o Options) nFromFlags() bool {
	return o.N.Valid || (o.NCas.Valid && o.NCon.Valid)
}

// Result is everything a run produced.
type Result struct {
	Frame    *Frame
	Drops    *Drops
	Ingested int
	Mapping  colname.Mapping
	Sign     colname.Sign
	Metadata Metadata

	// OutPath is empty when nothing was written.
	OutPath string
}

// Run munges o.Sumstats and writes the result to <o.Out>.sumstats.gz.
// Nothing is written unless every stage succeeds.
func Run(ctx context.Context, o Options) (*Result, error) {
	if o.Out == "" {
		return nil, fmt.Errorf("%w: --out is required", ldscmunge.ErrConfigurationConflict)
	}

	res, err := Munge(ctx, o)
	if err != nil {
		return nil, err
	}

	logger := o.logger()
	out := OutputPath(o.Out)

	nonmissing := 0
	for _, v := range res.Frame.Col("Z").Num {
		if v.Valid && !math.IsNaN(v.Float64) {
			nonmissing++
		}
	}
	logger.Printf("Writing summary statistics for %d SNPs (%d with nonmissing beta) to %s.\n", res.Frame.Len(), nonmissing, out)

	if err := Write(out, res.Frame, o.KeepMAF); err != nil {
		return nil, err
	}
	res.OutPath = out

	res.Metadata.Log(res.Frame, o.PlotChiSq, logger)

	return res, nil
}

// Munge runs every stage in order and returns the final frame without
// writing it.
func Munge(ctx context.Context, o Options) (*Result, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	logger := o.logger()

	in, err := ldscmunge.Open(ctx, o.Sumstats)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	split := ldscmunge.ChooseSplitter(in.Sample(64 * 1024))
	headers, err := in.ReadHeader(split)
	if err != nil {
		return nil, err
	}

	// Resolve and validate the columns before any data is read
	resolution, err := colname.Resolve(o.Columns, o.Ignore, o.A1Inc)
	if err != nil {
		return nil, err
	}
	mapping, sign, err := resolution.DetectSign(resolution.Translate(headers))
	if err != nil {
		return nil, err
	}
	mapping, err = colname.Validate(mapping, headers, colname.Requirements{
		A1Inc:      o.A1Inc,
		NoAlleles:  o.NoAlleles,
		InfoList:   o.Columns.InfoList != "",
		NFromFlags: o.nFromFlags(),
	})
	if err != nil {
		return nil, err
	}

	logInterpretation(logger, mapping, sign)

	var ref *Reference
	if o.MergeAlleles != "" {
		if ref, err = LoadReference(ctx, o.MergeAlleles, logger); err != nil {
			return nil, err
		}
	}

	logger.Printf("Reading sumstats from %s into memory %d SNPs at a time.\n", o.Sumstats, o.ChunkSize)
	f, err := Read(in, split, headers, mapping, o.ChunkSize, logger)
	if err != nil {
		return nil, err
	}
	ingested := f.Len()
	logger.Printf("Read %d SNPs from --sumstats file.\n", ingested)

	d := NewDrops()

	f = DropMissingRows(f, d, logger)
	if f, err = RenameColumns(f); err != nil {
		return nil, err
	}
	if ref != nil {
		f = RestrictToReference(f, ref, d, logger)
	}
	f = FilterInfo(f, o.InfoMin, d, logger)
	f = FilterFrq(f, o.MafMin, o.KeepMAF, d, logger)
	f = FilterP(f, d, logger)
	if !o.NoAlleles {
		f = FilterAlleles(f, d, logger)
	}
	f = DropDuplicateSNPs(f, d, logger)

	if f.Len() == 0 {
		return nil, fmt.Errorf("%w: after applying filters, no SNPs remain", ldscmunge.ErrEmptyResult)
	}

	f, err = ResolveSampleSize(f, SampleSizeOptions{
		N:         o.N,
		NCas:      o.NCas,
		NCon:      o.NCon,
		NMin:      o.NMin,
		NStudyMin: o.NStudyMin,
	}, d, logger)
	if err != nil {
		return nil, err
	}

	f, err = TransformStatistic(ctx, f, sign, o.A1Inc, o.Threads, logger)
	if err != nil {
		return nil, err
	}

	if ref != nil {
		before := f.Len()
		f = MergeAlleles(f, ref, d, logger)
		logger.Printf("Aligned to %d --merge-alleles SNPs (%d SNPs had summary statistics before the join).\n", f.Len(), before-d.Get(DropMergeAlleles))
	}

	return &Result{
		Frame:    f,
		Drops:    d,
		Ingested: ingested,
		Mapping:  mapping,
		Sign:     sign,
		Metadata: Summarize(f),
	}, nil
}

func (o Options) logger() *log.Logger {
	if o.Logger == nil {
		return log.New(io.Discard, "", 0)
	}

	return o.Logger
}

func logInterpretation(logger *log.Logger, m colname.Mapping, sign colname.Sign) {
	lines := make([]string, 0, len(m))
	for _, e := range m {
		desc := e.Field.Describe()
		if e.Field == colname.SignedSumstat && sign.Null.Valid {
			desc = fmt.Sprintf("%s (null value %g)", desc, sign.Null.Float64)
		}
		lines = append(lines, fmt.Sprintf("%s:\t%s", e.Raw, desc))
	}
	logger.Printf("Interpreting column names as follows:\n%s\n", strings.Join(lines, "\n"))
}
