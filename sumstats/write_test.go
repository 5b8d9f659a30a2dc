package sumstats

import (
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/carbocation/ldscmunge/colname"
	"github.com/klauspost/compress/gzip"
	"gopkg.in/guregu/null.v3"
)

func readGzip(t *testing.T, path string) string {
	t.Helper()

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		t.Fatal(err)
	}
	defer gz.Close()

	b, err := io.ReadAll(gz)
	if err != nil {
		t.Fatal(err)
	}

	return string(b)
}

func TestFormatCell(t *testing.T) {
	n := NewNumColumn("N", nums(1000, 2.5e5))
	n.Integral = true
	z := NewNumColumn("Z", []null.Float{null.FloatFrom(1.959964), null.FloatFrom(math.NaN()), {}, null.FloatFrom(math.Inf(1)), null.FloatFrom(-0.0004), null.FloatFrom(math.Copysign(0, -1))})
	snp := NewTextColumn("SNP", texts("rs1", ""))

	for _, v := range []struct {
		c        *Column
		i        int
		expected string
	}{
		{n, 0, "1000"},
		{n, 1, "250000"},
		{z, 0, "1.960"},
		{z, 1, ""},
		{z, 2, ""},
		{z, 3, "inf"},
		{z, 4, "-0.000"},
		{z, 5, "0.000"},
		{snp, 0, "rs1"},
		{snp, 1, ""},
	} {
		if got := FormatCell(v.c, v.i); got != v.expected {
			t.Errorf("%s row %d: expected %q, got %q", v.c.Name, v.i, v.expected, got)
		}
	}
}

func TestFormatCellSignedZeroZ(t *testing.T) {
	// P = 1 gives Z = 0, and a negative effect then flips it to -0
	z, _ := PToZ(1)
	signed := ApplySign([]null.Float{null.FloatFrom(z)}, nums(-0.2), 0)
	if !math.Signbit(signed[0].Float64) {
		t.Fatalf("Expected a negative zero, got %g", signed[0].Float64)
	}

	if got := FormatCell(NewNumColumn("Z", signed), 0); got != "0.000" {
		t.Errorf("Expected 0.000, got %q", got)
	}
}

func TestWrite(t *testing.T) {
	n := numColumn(colname.N, 1000, 1000)
	n.Integral = true
	f := NewFrame(
		textColumn(colname.SNP, "rs1", "rs2"),
		textColumn(colname.A1, "A", "G"),
		textColumn(colname.A2, "C", "T"),
		numColumn(colname.Frq, 0.25, 0.5),
		n,
		numColumn("Z", 1.23456, -2),
	)

	dir := t.TempDir()
	path := OutputPath(filepath.Join(dir, "out"))
	if !strings.HasSuffix(path, "out.sumstats.gz") {
		t.Fatalf("Unexpected output path %s", path)
	}

	if err := Write(path, f, false); err != nil {
		t.Fatal(err)
	}

	expected := "SNP\tA1\tA2\tN\tZ\n" +
		"rs1\tA\tC\t1000\t1.235\n" +
		"rs2\tG\tT\t1000\t-2.000\n"
	if got := readGzip(t, path); got != expected {
		t.Errorf("Expected\n%s\ngot\n%s", expected, got)
	}

	if err := Write(path, f, true); err != nil {
		t.Fatal(err)
	}
	if got := readGzip(t, path); !strings.HasPrefix(got, "SNP\tA1\tA2\tFRQ\tN\tZ\n") {
		t.Errorf("Expected FRQ to be written with keepMAF, got header %q", strings.SplitN(got, "\n", 2)[0])
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("Expected only the output file to remain, found %d entries", len(entries))
	}
}
