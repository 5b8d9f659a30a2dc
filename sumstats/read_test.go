package sumstats

import (
	"context"
	"testing"

	"github.com/carbocation/ldscmunge"
	"github.com/carbocation/ldscmunge/colname"
)

func readFixture(t *testing.T, content string, m colname.Mapping, chunkSize int) (*Frame, error) {
	t.Helper()

	in, err := ldscmunge.Open(context.Background(), writeFile(t, "sumstats.txt", content))
	if err != nil {
		t.Fatal(err)
	}
	defer in.Close()

	split := ldscmunge.ChooseSplitter(in.Sample(1 << 16))
	headers, err := in.ReadHeader(split)
	if err != nil {
		t.Fatal(err)
	}

	return Read(in, split, headers, m, chunkSize, quiet)
}

func TestRead(t *testing.T) {
	content := "MarkerName\tEffect_Allele\tOther\tpval\tNeff\tNotMapped\n" +
		"rs1\ta\tc\t0.5\t1.5e3\tx\n" +
		"rs2\tG\tT\tNA\t2000.9\ty\n" +
		"rs3\t.\tT\t0.1\t\tz\n" +
		"\n" +
		"rs4\tA\n"

	m := colname.Mapping{
		{Raw: "MarkerName", Field: colname.SNP},
		{Raw: "Effect_Allele", Field: colname.A1},
		{Raw: "Other", Field: colname.A2},
		{Raw: "pval", Field: colname.P},
		{Raw: "Neff", Field: colname.N},
	}

	f, err := readFixture(t, content, m, 2)
	if err != nil {
		t.Fatal(err)
	}

	if f.Len() != 4 {
		t.Fatalf("Expected 4 rows across chunks, got %d", f.Len())
	}
	if f.Has("NotMapped") {
		t.Error("Unmapped columns must not be read")
	}

	if got := f.Col("Effect_Allele").String(0); got != "A" {
		t.Errorf("Expected alleles to be upper-cased, got %s", got)
	}
	if !f.Col("Effect_Allele").IsNull(2) {
		t.Error("Expected . to be read as missing")
	}
	if !f.Col("pval").IsNull(1) {
		t.Error("Expected NA to be read as missing")
	}

	n := f.Col("Neff")
	if n.Field != colname.N || !n.Integral {
		t.Error("Expected N to be an integral column")
	}
	if n.Num[0].Float64 != 1500 {
		t.Errorf("Expected scientific notation N to parse as 1500, got %g", n.Num[0].Float64)
	}
	if n.Num[1].Float64 != 2000 {
		t.Errorf("Expected N to be truncated to 2000, got %g", n.Num[1].Float64)
	}
	if !n.IsNull(2) {
		t.Error("Expected an empty cell to be missing")
	}
	if !f.Col("pval").IsNull(3) || !f.Col("Other").IsNull(3) {
		t.Error("Expected a short row to be padded with missing values")
	}
}

func TestReadChunkSizeDoesNotChangeResult(t *testing.T) {
	content := "SNP\tP\nrs1\t0.1\nrs2\t0.2\nrs3\t0.3\nrs4\t0.4\nrs5\t0.5\n"
	m := colname.Mapping{{Raw: "SNP", Field: colname.SNP}, {Raw: "P", Field: colname.P}}

	whole, err := readFixture(t, content, m, DefaultChunkSize)
	if err != nil {
		t.Fatal(err)
	}
	for _, size := range []int{1, 2, 5} {
		chunked, err := readFixture(t, content, m, size)
		if err != nil {
			t.Fatal(err)
		}
		if chunked.Len() != whole.Len() {
			t.Fatalf("Chunk size %d: expected %d rows, got %d", size, whole.Len(), chunked.Len())
		}
		for i := 0; i < whole.Len(); i++ {
			if chunked.Col("SNP").String(i) != whole.Col("SNP").String(i) || chunked.Col("P").Num[i] != whole.Col("P").Num[i] {
				t.Errorf("Chunk size %d: row %d differs", size, i)
			}
		}
	}
}

func TestReadRejectsNonNumeric(t *testing.T) {
	content := "SNP\tP\nrs1\tabc\n"
	m := colname.Mapping{{Raw: "SNP", Field: colname.SNP}, {Raw: "P", Field: colname.P}}

	if _, err := readFixture(t, content, m, 10); err == nil {
		t.Error("Expected an error for a non-numeric P")
	}
}
