package sumstats

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/carbocation/ldscmunge"
	"github.com/carbocation/ldscmunge/colname"
	"github.com/carbocation/pfx"
	"github.com/gocarina/gocsv"
	"gopkg.in/guregu/null.v3"
)

// ColMergeAlleles holds the reference allele pair while the reference panel
// is in play. It never reaches the output.
const ColMergeAlleles = "MA"

// MatchingAlleles lists every A1|A2|refA1|refA2 concatenation in which the
// summary statistics alleles describe the same variant as the reference, up to
// allele order and strand.
var MatchingAlleles = map[string]struct{}{
	"GTAC": {}, "ACAC": {}, "ACGT": {}, "GTTG": {}, "CTAG": {}, "CTCT": {}, "ACCA": {}, "CTTC": {},
	"AGTC": {}, "GTGT": {}, "GTCA": {}, "AGGA": {}, "GACT": {}, "GAGA": {}, "GAAG": {}, "AGCT": {},
	"GATC": {}, "CAAC": {}, "CAGT": {}, "TGCA": {}, "CACA": {}, "TGAC": {}, "AGAG": {}, "CATG": {},
	"TCCT": {}, "TCGA": {}, "TGTG": {}, "TGGT": {}, "CTGA": {}, "TCAG": {}, "TCTC": {}, "ACTG": {},
}

// Reference is a read-only panel of SNPs and their allele pairs, in file
// order.
type Reference struct {
	SNPs  []string
	Pairs []string

	index map[string]int
}

func newReference() *Reference {
	return &Reference{index: make(map[string]int)}
}

func (r *Reference) add(snp, a1, a2 string) {
	r.SNPs = append(r.SNPs, snp)
	r.Pairs = append(r.Pairs, strings.ToUpper(a1+a2))
	if _, exists := r.index[snp]; !exists {
		r.index[snp] = len(r.SNPs) - 1
	}
}

func (r *Reference) Len() int {
	return len(r.SNPs)
}

// Lookup returns the allele pair of the first panel entry for snp.
func (r *Reference) Lookup(snp string) (string, bool) {
	i, ok := r.index[snp]
	if !ok {
		return "", false
	}

	return r.Pairs[i], true
}

type referenceRow struct {
	SNP string `csv:"SNP"`
	A1  string `csv:"A1"`
	A2  string `csv:"A2"`
}

// LoadReference reads a --merge-alleles panel. Delimited panels need a header
// with SNP, A1 and A2 columns. A path ending in .bim (optionally compressed) is
// read as a headerless PLINK variant table instead.
func LoadReference(ctx context.Context, path string, logger *log.Logger) (*Reference, error) {
	in, err := ldscmunge.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	var ref *Reference
	if isBIM(path) {
		ref, err = readReferenceBIM(in)
	} else {
		ref, err = readReferenceTable(in)
	}
	if err != nil {
		return nil, err
	}

	logger.Printf("Read %d SNPs for allele merge.\n", ref.Len())

	return ref, nil
}

func isBIM(path string) bool {
	for _, ext := range []string{".gz", ".bz2", ".xz", ".zip"} {
		path = strings.TrimSuffix(path, ext)
	}

	return strings.HasSuffix(strings.ToLower(path), ".bim")
}

func readReferenceBIM(in *ldscmunge.Input) (*Reference, error) {
	ref := newReference()

	bim := ldscmunge.NewBIM(in)
	for row := bim.Read(); row != nil; row = bim.Read() {
		ref.add(row.VariantID, row.Allele1, row.Allele2)
	}
	if err := bim.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ldscmunge.ErrReferenceFile, in.Path, err)
	}

	return ref, nil
}

func readReferenceTable(in *ldscmunge.Input) (*Reference, error) {
	rows := make([]*referenceRow, 0)
	lr := &lineReader{in: in, split: ldscmunge.ChooseSplitter(in.Sample(64 * 1024))}
	if err := gocsv.UnmarshalCSV(lr, &rows); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ldscmunge.ErrReferenceFile, in.Path, err)
	}

	for _, required := range []colname.Field{colname.SNP, colname.A1, colname.A2} {
		if !lr.hasColumn(string(required)) {
			return nil, fmt.Errorf("%w: --merge-alleles must have columns SNP, A1, A2", ldscmunge.ErrReferenceFile)
		}
	}

	ref := newReference()
	for _, row := range rows {
		ref.add(row.SNP, row.A1, row.A2)
	}

	return ref, nil
}

// lineReader feeds gocsv from a whitespace- or tab-delimited input and
// remembers the header it saw.
type lineReader struct {
	in     *ldscmunge.Input
	split  ldscmunge.SplitFunc
	header []string
}

func (lr *lineReader) Read() ([]string, error) {
	for {
		line, err := lr.in.ReadLine()
		if err != nil {
			if err != io.EOF {
				err = pfx.Err(err)
			}
			return nil, err
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		record := lr.split(line)
		if lr.header == nil {
			lr.header = record
		}
		return record, nil
	}
}

func (lr *lineReader) ReadAll() ([][]string, error) {
	out := make([][]string, 0)
	for {
		record, err := lr.Read()
		if err == io.EOF {
			return out, nil
		} else if err != nil {
			return nil, err
		}
		out = append(out, record)
	}
}

func (lr *lineReader) hasColumn(name string) bool {
	for _, h := range lr.header {
		if h == name {
			return true
		}
	}

	return false
}

// MergeAlleles removes rows whose alleles disagree with the reference panel,
// then right-joins onto the panel: the result has one row per panel entry, in
// panel order, and panel SNPs without summary statistics carry empty values.
// The frame must already hold the MA column from RestrictToReference.
func MergeAlleles(f *Frame, ref *Reference, d *Drops, logger *log.Logger) *Frame {
	a1, a2 := f.Col(string(colname.A1)), f.Col(string(colname.A2))
	ma := f.Col(ColMergeAlleles)

	out, removed := f.filterBy(func(i int) bool {
		_, ok := MatchingAlleles[a1.String(i)+a2.String(i)+ma.String(i)]
		return ok
	})
	d.Add(DropMergeAlleles, removed)
	logger.Printf("Removed %d SNPs whose alleles did not match --merge-alleles (%d SNPs remain).\n", removed, out.Len())

	out.Drop(ColMergeAlleles)

	return RightJoinReference(out, ref)
}

// RightJoinReference lays the frame out in reference panel order. SNP is taken
// from the panel; every other column is empty where the panel SNP has no row.
func RightJoinReference(f *Frame, ref *Reference) *Frame {
	snps := f.Col(string(colname.SNP))
	byID := make(map[string]int, f.Len())
	for i := 0; i < f.Len(); i++ {
		if _, exists := byID[snps.String(i)]; !exists {
			byID[snps.String(i)] = i
		}
	}

	rows := make([]int, ref.Len())
	for i, snp := range ref.SNPs {
		rows[i] = -1
		if j, ok := byID[snp]; ok {
			rows[i] = j
		}
	}

	out := f.Take(rows)

	panelIDs := make([]null.String, ref.Len())
	for i, snp := range ref.SNPs {
		panelIDs[i] = null.StringFrom(snp)
	}
	coalesced := NewTextColumn(string(colname.SNP), panelIDs)
	coalesced.Field = colname.SNP
	out.Set(coalesced)

	return out
}
