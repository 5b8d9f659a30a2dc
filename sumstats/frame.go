// Package sumstats ingests, quality-controls and transforms GWAS summary
// statistics into the LDSC .sumstats format.
package sumstats

import (
	"github.com/carbocation/ldscmunge/colname"
	"gopkg.in/guregu/null.v3"
)

// Column is one named column of a Frame. Exactly one of Text and Num is
// non-nil.
type Column struct {
	Name string

	// Field is the canonical field the column was read for. Helper columns
	// that never came from the input leave it empty.
	Field colname.Field

	Text []null.String
	Num  []null.Float

	// Integral columns hold counts and are written without decimals.
	Integral bool
}

func NewTextColumn(name string, values []null.String) *Column {
	return &Column{Name: name, Text: values}
}

func NewNumColumn(name string, values []null.Float) *Column {
	return &Column{Name: name, Num: values}
}

func (c *Column) Len() int {
	if c.Text != nil {
		return len(c.Text)
	}

	return len(c.Num)
}

// IsNull reports whether row i is missing.
func (c *Column) IsNull(i int) bool {
	if c.Text != nil {
		return !c.Text[i].Valid
	}

	return !c.Num[i].Valid
}

// String returns row i of a text column, or "" if it is missing.
func (c *Column) String(i int) string {
	return c.Text[i].ValueOrZero()
}

func (c *Column) subset(rows []int) *Column {
	out := &Column{Name: c.Name, Field: c.Field, Integral: c.Integral}
	if c.Text != nil {
		out.Text = make([]null.String, len(rows))
		for i, r := range rows {
			if r >= 0 {
				out.Text[i] = c.Text[r]
			}
		}
		return out
	}

	out.Num = make([]null.Float, len(rows))
	for i, r := range rows {
		if r >= 0 {
			out.Num[i] = c.Num[r]
		}
	}

	return out
}

// Frame is the evolving set of variant rows, stored column-wise. A Frame has a
// single owner at a time; stages either mutate it in place (dropping and
// adding columns) or hand back a new, filtered Frame.
type Frame struct {
	Columns []*Column
	rows    int
}

// NewFrame builds a frame from equal-length columns.
func NewFrame(cols ...*Column) *Frame {
	f := &Frame{Columns: cols}
	if len(cols) > 0 {
		f.rows = cols[0].Len()
	}

	return f
}

func (f *Frame) Len() int {
	return f.rows
}

// Col returns the column with the given name, or nil.
func (f *Frame) Col(name string) *Column {
	for _, c := range f.Columns {
		if c.Name == name {
			return c
		}
	}

	return nil
}

func (f *Frame) Has(name string) bool {
	return f.Col(name) != nil
}

func (f *Frame) Names() []string {
	out := make([]string, 0, len(f.Columns))
	for _, c := range f.Columns {
		out = append(out, c.Name)
	}

	return out
}

// Drop removes a column in place. Dropping an absent column is a no-op.
func (f *Frame) Drop(name string) {
	out := f.Columns[:0]
	for _, c := range f.Columns {
		if c.Name != name {
			out = append(out, c)
		}
	}
	f.Columns = out
}

// Set replaces the column with the same name in place, or appends it.
func (f *Frame) Set(c *Column) {
	if len(f.Columns) == 0 {
		f.rows = c.Len()
	}
	for i, existing := range f.Columns {
		if existing.Name == c.Name {
			f.Columns[i] = c
			return
		}
	}
	f.Columns = append(f.Columns, c)
}

// Filter returns a new frame holding the rows where keep is true, in their
// original order.
func (f *Frame) Filter(keep []bool) *Frame {
	rows := make([]int, 0, len(keep))
	for i, k := range keep {
		if k {
			rows = append(rows, i)
		}
	}

	return f.Take(rows)
}

// Take returns a new frame with the given rows, in the given order. A
// negative row index produces an all-missing row.
func (f *Frame) Take(rows []int) *Frame {
	out := &Frame{Columns: make([]*Column, 0, len(f.Columns)), rows: len(rows)}
	for _, c := range f.Columns {
		out.Columns = append(out.Columns, c.subset(rows))
	}

	return out
}

// Concat stacks frames that share a column layout.
func Concat(parts []*Frame) *Frame {
	if len(parts) == 0 {
		return &Frame{}
	}
	if len(parts) == 1 {
		return parts[0]
	}

	total := 0
	for _, p := range parts {
		total += p.Len()
	}

	out := &Frame{Columns: make([]*Column, 0, len(parts[0].Columns)), rows: total}
	for i, template := range parts[0].Columns {
		c := &Column{Name: template.Name, Field: template.Field, Integral: template.Integral}
		if template.Text != nil {
			c.Text = make([]null.String, 0, total)
			for _, p := range parts {
				c.Text = append(c.Text, p.Columns[i].Text...)
			}
		} else {
			c.Num = make([]null.Float, 0, total)
			for _, p := range parts {
				c.Num = append(c.Num, p.Columns[i].Num...)
			}
		}
		out.Columns = append(out.Columns, c)
	}

	return out
}

// filterBy keeps the rows for which pred holds and returns the filtered frame
// along with the number of rows removed.
func (f *Frame) filterBy(pred func(i int) bool) (*Frame, int) {
	keep := make([]bool, f.Len())
	kept := 0
	for i := range keep {
		if pred(i) {
			keep[i] = true
			kept++
		}
	}

	if kept == f.Len() {
		return f, 0
	}

	return f.Filter(keep), f.Len() - kept
}
