package sumstats

import (
	"fmt"
	"log"

	"github.com/carbocation/ldscmunge"
	"github.com/carbocation/ldscmunge/colname"
	"gopkg.in/guregu/null.v3"
)

// ValidSNPs are the allele pairs that are single-nucleotide and not
// strand-ambiguous.
var ValidSNPs = map[string]struct{}{
	"AC": {}, "GT": {}, "AG": {}, "CA": {},
	"GA": {}, "TG": {}, "TC": {}, "CT": {},
}

// DropMissingRows removes rows with a missing value in any column except INFO.
// Missing INFO is handled by FilterInfo.
func DropMissingRows(f *Frame, d *Drops, logger *log.Logger) *Frame {
	checked := make([]*Column, 0, len(f.Columns))
	for _, c := range f.Columns {
		if c.Field != colname.Info {
			checked = append(checked, c)
		}
	}

	out, removed := f.filterBy(func(i int) bool {
		for _, c := range checked {
			if c.IsNull(i) {
				return false
			}
		}
		return true
	})

	d.Add(DropMissing, removed)
	logger.Printf("Removed %d SNPs with missing values.\n", d.Get(DropMissing))

	return out
}

// RenameColumns replaces raw headers with canonical field names. When several
// INFO columns were requested, they are collapsed into a single INFO column
// holding their mean, with missing values counting as zero.
func RenameColumns(f *Frame) (*Frame, error) {
	infos := make([]*Column, 0)
	out := &Frame{Columns: make([]*Column, 0, len(f.Columns)), rows: f.Len()}
	seen := make(map[colname.Field]struct{})

	for _, c := range f.Columns {
		if c.Field == "" {
			return nil, fmt.Errorf("%w: column %s has no field", ldscmunge.ErrInternalInvariant, c.Name)
		}

		if c.Field == colname.Info {
			infos = append(infos, c)
			if len(infos) > 1 {
				continue
			}
		} else if _, dup := seen[c.Field]; dup {
			return nil, fmt.Errorf("%w: more than one %s column survived validation", ldscmunge.ErrInternalInvariant, c.Field)
		}
		seen[c.Field] = struct{}{}

		renamed := *c
		renamed.Name = string(c.Field)
		out.Columns = append(out.Columns, &renamed)
	}

	if len(infos) > 1 {
		out.Set(meanInfo(infos, f.Len()))
	}

	return out, nil
}

func meanInfo(infos []*Column, rows int) *Column {
	mean := make([]null.Float, rows)
	for i := range mean {
		sum, found := 0.0, false
		for _, c := range infos {
			if c.Num[i].Valid {
				sum += c.Num[i].Float64
				found = true
			}
		}
		if found {
			mean[i] = null.FloatFrom(sum / float64(len(infos)))
		}
	}

	c := NewNumColumn(string(colname.Info), mean)
	c.Field = colname.Info

	return c
}

// RestrictToReference keeps only rows whose SNP is in the reference panel and
// attaches the panel's allele pair as column MA.
func RestrictToReference(f *Frame, ref *Reference, d *Drops, logger *log.Logger) *Frame {
	snps := f.Col(string(colname.SNP))

	out, removed := f.filterBy(func(i int) bool {
		_, ok := ref.Lookup(snps.String(i))
		return ok
	})

	ma := make([]null.String, out.Len())
	outSNPs := out.Col(string(colname.SNP))
	for i := range ma {
		pair, _ := ref.Lookup(outSNPs.String(i))
		ma[i] = null.StringFrom(pair)
	}
	out.Set(NewTextColumn(ColMergeAlleles, ma))

	d.Add(DropMerge, removed)
	logger.Printf("Removed %d SNPs not in --merge-alleles.\n", d.Get(DropMerge))

	return out
}

// FilterInfo warns about INFO values outside (0, 2), then removes rows with
// INFO below infoMin (or missing), and finally drops the INFO column.
func FilterInfo(f *Frame, infoMin float64, d *Drops, logger *log.Logger) *Frame {
	info := f.Col(string(colname.Info))
	if info == nil {
		logger.Printf("Removed %d SNPs with INFO <= %g.\n", d.Get(DropInfo), infoMin)
		return f
	}

	bad := 0
	for _, v := range info.Num {
		if v.Valid && (v.Float64 >= 2 || v.Float64 <= 0) {
			bad++
		}
	}
	if bad > 0 {
		logger.Printf("WARNING: %d SNPs had INFO outside of [0,2]. The INFO column may be mislabeled.\n", bad)
	}

	out, removed := f.filterBy(func(i int) bool {
		v := info.Num[i]
		return v.Valid && v.Float64 >= infoMin
	})
	out.Drop(string(colname.Info))

	d.Add(DropInfo, removed)
	logger.Printf("Removed %d SNPs with INFO <= %g.\n", d.Get(DropInfo), infoMin)

	return out
}

// FilterFrq warns about FRQ outside [0, 1] and keeps rows with
// mafMin < FRQ <= 1-mafMin. The FRQ column is dropped unless keepMAF is set.
func FilterFrq(f *Frame, mafMin float64, keepMAF bool, d *Drops, logger *log.Logger) *Frame {
	frq := f.Col(string(colname.Frq))
	if frq == nil {
		logger.Printf("Removed %d SNPs with MAF <= %g.\n", d.Get(DropFrq), mafMin)
		return f
	}

	bad := 0
	for _, v := range frq.Num {
		if v.Valid && (v.Float64 < 0 || v.Float64 > 1) {
			bad++
		}
	}
	if bad > 0 {
		logger.Printf("WARNING: %d SNPs had FRQ outside of [0,1]. The FRQ column may be mislabeled.\n", bad)
	}

	low, high := mafMin, 1-mafMin
	out, removed := f.filterBy(func(i int) bool {
		v := frq.Num[i]
		return v.Valid && v.Float64 > low && v.Float64 <= high
	})
	if !keepMAF {
		out.Drop(string(colname.Frq))
	}

	d.Add(DropFrq, removed)
	logger.Printf("Removed %d SNPs with MAF <= %g.\n", d.Get(DropFrq), mafMin)

	return out
}

// FilterP removes rows whose p-value is outside (0, 1].
func FilterP(f *Frame, d *Drops, logger *log.Logger) *Frame {
	p := f.Col(string(colname.P))

	out, removed := f.filterBy(func(i int) bool {
		v := p.Num[i]
		return v.Valid && v.Float64 > 0 && v.Float64 <= 1
	})
	if removed > 0 {
		logger.Printf("WARNING: %d SNPs had P outside of (0,1]. The P column may be mislabeled.\n", removed)
	}

	d.Add(DropP, removed)
	logger.Printf("Removed %d SNPs with out-of-bounds p-values.\n", d.Get(DropP))

	return out
}

// FilterAlleles keeps rows whose A1A2 pair is in ValidSNPs. This removes
// strand-ambiguous pairs, indels and multi-base alleles.
func FilterAlleles(f *Frame, d *Drops, logger *log.Logger) *Frame {
	a1, a2 := f.Col(string(colname.A1)), f.Col(string(colname.A2))

	out, removed := f.filterBy(func(i int) bool {
		_, ok := ValidSNPs[a1.String(i)+a2.String(i)]
		return ok
	})

	d.Add(DropAlleles, removed)
	logger.Printf("Removed %d variants that were not SNPs or were strand-ambiguous.\n", d.Get(DropAlleles))

	return out
}

// DropDuplicateSNPs keeps the first row seen for each SNP identifier.
func DropDuplicateSNPs(f *Frame, d *Drops, logger *log.Logger) *Frame {
	snps := f.Col(string(colname.SNP))
	seen := make(map[string]struct{}, f.Len())

	out, removed := f.filterBy(func(i int) bool {
		id := snps.String(i)
		if _, dup := seen[id]; dup {
			return false
		}
		seen[id] = struct{}{}
		return true
	})

	d.Add(DropDuplicates, removed)
	logger.Printf("Removed %d SNPs with duplicated rs numbers (%d SNPs remain).\n", removed, out.Len())

	return out
}
