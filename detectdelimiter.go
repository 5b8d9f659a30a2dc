package ldscmunge

import (
	"bytes"
	"io"
	"strings"

	"github.com/csimplestring/go-csv/detector"
)

// DetermineDelimiter returns the single most likely rune that would delimit the
// values in the reader, assuming a CSV-like file.
func DetermineDelimiter(r io.Reader) rune {
	d := detector.New()
	delimiters := d.DetectDelimiter(r, '"')

	if len(delimiters) > 0 {
		return rune(delimiters[0][0])
	}

	return ','
}

// SplitFunc breaks one line of a delimited file into fields.
type SplitFunc func(line string) []string

// SplitTabs splits on tabs only, so empty cells survive as empty fields.
func SplitTabs(line string) []string {
	fields := strings.Split(line, "\t")
	for i, f := range fields {
		fields[i] = strings.TrimSpace(f)
	}

	return fields
}

// SplitWhitespace treats any run of blanks as one separator.
func SplitWhitespace(line string) []string {
	return strings.Fields(line)
}

// ChooseSplitter inspects a sample from the top of a summary statistics file.
// Tab-delimited files are split strictly on tabs; anything else is treated as
// whitespace-delimited, which is what LDSC-style tools emit.
func ChooseSplitter(sample []byte) SplitFunc {
	if DetermineDelimiter(bytes.NewReader(sample)) == '\t' {
		return SplitTabs
	}

	// The detector needs a few consistent lines. A lone header still tells us
	// enough.
	firstLine := sample
	if i := bytes.IndexByte(sample, '\n'); i >= 0 {
		firstLine = sample[:i]
	}
	if bytes.IndexByte(firstLine, '\t') >= 0 {
		return SplitTabs
	}

	return SplitWhitespace
}
