package sumstats

import (
	"bufio"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/carbocation/ldscmunge/colname"
	"github.com/carbocation/pfx"
	"github.com/klauspost/compress/gzip"
)

// OutputColumns are the columns that may appear in a .sumstats file. They are
// written in the order they have in the frame.
var OutputColumns = []string{
	string(colname.SNP),
	string(colname.N),
	"Z",
	string(colname.A1),
	string(colname.A2),
	string(colname.Frq),
}

// OutputPath returns the file name for an output prefix.
func OutputPath(prefix string) string {
	return prefix + ".sumstats.gz"
}

// PrintColumns selects the frame's output columns. FRQ is only written when
// keepMAF is set.
func PrintColumns(f *Frame, keepMAF bool) []*Column {
	allowed := make(map[string]struct{})
	for _, name := range OutputColumns {
		if name == string(colname.Frq) && !keepMAF {
			continue
		}
		allowed[name] = struct{}{}
	}

	out := make([]*Column, 0, len(allowed))
	for _, c := range f.Columns {
		if _, ok := allowed[c.Name]; ok {
			out = append(out, c)
		}
	}

	return out
}

// Write saves the frame as a gzipped, tab-delimited table with a header.
// Floats get three decimals, counts none, and missing values (including NaN)
// are empty. The data go to a temporary file that is renamed into place only
// once everything has been flushed, so a failed run leaves nothing behind.
func Write(path string, f *Frame, keepMAF bool) error {
	cols := PrintColumns(f, keepMAF)

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp*")
	if err != nil {
		return pfx.Err(err)
	}
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	gz := gzip.NewWriter(tmp)
	w := bufio.NewWriterSize(gz, 1<<16)

	names := make([]string, 0, len(cols))
	for _, c := range cols {
		names = append(names, c.Name)
	}
	if _, err := w.WriteString(strings.Join(names, "\t") + "\n"); err != nil {
		return pfx.Err(err)
	}

	cells := make([]string, len(cols))
	for i := 0; i < f.Len(); i++ {
		for j, c := range cols {
			cells[j] = FormatCell(c, i)
		}
		if _, err := w.WriteString(strings.Join(cells, "\t") + "\n"); err != nil {
			return pfx.Err(err)
		}
	}

	if err := w.Flush(); err != nil {
		return pfx.Err(err)
	}
	if err := gz.Close(); err != nil {
		return pfx.Err(err)
	}
	if err := tmp.Chmod(0644); err != nil {
		return pfx.Err(err)
	}
	if err := tmp.Close(); err != nil {
		return pfx.Err(err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return pfx.Err(err)
	}
	committed = true

	return nil
}

// FormatCell renders row i of c as it appears in a .sumstats file.
func FormatCell(c *Column, i int) string {
	if c.Text != nil {
		return c.Text[i].ValueOrZero()
	}

	v := c.Num[i]
	switch {
	case !v.Valid, math.IsNaN(v.Float64):
		return ""
	case math.IsInf(v.Float64, 1):
		return "inf"
	case math.IsInf(v.Float64, -1):
		return "-inf"
	case c.Integral:
		return strconv.FormatFloat(v.Float64, 'f', 0, 64)
	}

	// -0 comes from signing a Z of 0
	x := v.Float64
	if x == 0 {
		x = 0
	}

	return strconv.FormatFloat(x, 'f', 3, 64)
}
