package sumstats

import (
	"fmt"
	"io"
	"log"
	"math"
	"strconv"
	"strings"

	"github.com/carbocation/ldscmunge"
	"github.com/carbocation/ldscmunge/colname"
	"github.com/carbocation/pfx"
	"gopkg.in/guregu/null.v3"
)

// DefaultChunkSize is the number of rows parsed per chunk.
const DefaultChunkSize = 5000000

// IsNullToken reports whether a raw cell means "missing".
func IsNullToken(s string) bool {
	return s == "" || s == "." || s == "NA"
}

type columnPlan struct {
	index int
	entry colname.Entry
}

// Read parses the body of a summary statistics file whose header has already
// been consumed. Only the mapped columns are kept; they are named by their raw
// headers until RenameColumns runs. Numeric columns, including the signed
// statistic and sample sizes, are parsed as floats so that scientific notation
// is accepted; count columns are then truncated to integers. chunkSize bounds
// how many rows are buffered before they are folded into the result and does
// not change the output.
func Read(in *ldscmunge.Input, split ldscmunge.SplitFunc, headers []string, m colname.Mapping, chunkSize int, logger *log.Logger) (*Frame, error) {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	plan := make([]columnPlan, 0, len(m))
	for _, e := range m {
		idx := -1
		for i, h := range headers {
			if h == e.Raw {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, fmt.Errorf("%w: column %s is not in the file header", ldscmunge.ErrInternalInvariant, e.Raw)
		}
		plan = append(plan, columnPlan{index: idx, entry: e})
	}

	chunks := make([]*Frame, 0)
	chunk := newChunk(plan, chunkSize)

	// Line 1 is the header
	for lineNo := 2; ; lineNo++ {
		line, err := in.ReadLine()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, pfx.Err(err)
		}

		if strings.TrimSpace(line) == "" {
			continue
		}

		if err := chunk.add(split(line), lineNo); err != nil {
			return nil, err
		}

		if chunk.rows == chunkSize {
			chunks = append(chunks, chunk.frame())
			chunk = newChunk(plan, chunkSize)
			if logger != nil {
				logger.Printf("Read %d chunks of up to %d SNPs\n", len(chunks), chunkSize)
			}
		}
	}
	if chunk.rows > 0 || len(chunks) == 0 {
		chunks = append(chunks, chunk.frame())
	}

	return Concat(chunks), nil
}

type chunkBuilder struct {
	plan []columnPlan
	cols []*Column
	rows int
}

func newChunk(plan []columnPlan, capacity int) *chunkBuilder {
	// Don't reserve the whole chunk up front; most files are far smaller
	// than the default.
	if capacity > 1<<16 {
		capacity = 1 << 16
	}

	b := &chunkBuilder{plan: plan, cols: make([]*Column, 0, len(plan))}
	for _, p := range plan {
		c := &Column{Name: p.entry.Raw, Field: p.entry.Field, Integral: p.entry.Field.Integral()}
		if p.entry.Field.Numeric() {
			c.Num = make([]null.Float, 0, capacity)
		} else {
			c.Text = make([]null.String, 0, capacity)
		}
		b.cols = append(b.cols, c)
	}

	return b
}

func (b *chunkBuilder) add(fields []string, lineNo int) error {
	for i, p := range b.plan {
		c := b.cols[i]

		// Short rows are tolerated; the missing cells are null.
		raw := ""
		if p.index < len(fields) {
			raw = fields[p.index]
		}

		if c.Num == nil {
			if IsNullToken(raw) {
				c.Text = append(c.Text, null.String{})
				continue
			}
			if p.entry.Field == colname.A1 || p.entry.Field == colname.A2 {
				raw = strings.ToUpper(raw)
			}
			c.Text = append(c.Text, null.StringFrom(raw))
			continue
		}

		if IsNullToken(raw) {
			c.Num = append(c.Num, null.Float{})
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("line %d: could not parse %q in column %s as a number", lineNo, raw, p.entry.Raw)
		}
		if c.Integral {
			v = math.Trunc(v)
		}
		c.Num = append(c.Num, null.FloatFrom(v))
	}
	b.rows++

	return nil
}

func (b *chunkBuilder) frame() *Frame {
	return NewFrame(b.cols...)
}
