package ldscmunge

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Columns of a PLINK .bim file. Genetic distance (morgans) is never read.
const (
	bimChromosome int = iota
	bimVariantID
	bimMorgans
	bimCoordinate
	bimAllele1
	bimAllele2
)

// BIMRow is one variant of a .bim file. Alleles may be longer than one base.
type BIMRow struct {
	Chromosome string
	Coordinate uint32
	VariantID  string
	Allele1    string
	Allele2    string
}

// BIM reads PLINK .bim variant tables, which double as reference allele
// panels: the variant ID and both alleles are all that a panel needs.
type BIM struct {
	scanner *bufio.Scanner
	line    int
	err     error
}

func NewBIM(r io.Reader) *BIM {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), BufferSize)

	return &BIM{scanner: scanner}
}

func (b *BIM) Err() error {
	if b.err != nil {
		return b.err
	}

	return b.scanner.Err()
}

// Read returns the next row, or nil once the table is exhausted or an error
// has occurred. Check Err after a nil row.
func (b *BIM) Read() *BIMRow {
	for b.scanner.Scan() {
		b.line++

		data := strings.TrimSpace(b.scanner.Text())
		if data == "" {
			continue
		}
		cols := strings.Fields(data)

		if len(cols) < bimAllele2+1 {
			b.err = fmt.Errorf("line %d of bim file has %d columns, expected at least %d", b.line, len(cols), bimAllele2+1)
			return nil
		}

		row := &BIMRow{
			Chromosome: cols[bimChromosome],
			VariantID:  cols[bimVariantID],
			Allele1:    cols[bimAllele1],
			Allele2:    cols[bimAllele2],
		}

		coord64, err := strconv.ParseUint(cols[bimCoordinate], 10, 32)
		if err != nil {
			b.err = fmt.Errorf("line %d of bim file: %w", b.line, err)
			return nil
		}
		row.Coordinate = uint32(coord64)

		return row
	}

	return nil
}
