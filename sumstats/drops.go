package sumstats

// Stage names used as keys in Drops.
const (
	DropMissing      = "NA"
	DropMerge        = "MERGE"
	DropInfo         = "INFO"
	DropFrq          = "FRQ"
	DropP            = "P"
	DropAlleles      = "A"
	DropDuplicates   = "SNP"
	DropN            = "N"
	DropNStudy       = "NSTUDY"
	DropMergeAlleles = "MERGE_ALLELES"
)

// Drops counts the rows removed by each stage of one run. Counts only grow.
type Drops struct {
	order  []string
	counts map[string]int
}

func NewDrops() *Drops {
	return &Drops{counts: make(map[string]int)}
}

// Add records n more rows removed by stage.
func (d *Drops) Add(stage string, n int) {
	if n < 0 {
		n = 0
	}
	if _, seen := d.counts[stage]; !seen {
		d.order = append(d.order, stage)
	}
	d.counts[stage] += n
}

func (d *Drops) Get(stage string) int {
	return d.counts[stage]
}

// Stages lists stages in the order they first reported.
func (d *Drops) Stages() []string {
	out := make([]string, len(d.order))
	copy(out, d.order)
	return out
}

func (d *Drops) Total() int {
	total := 0
	for _, n := range d.counts {
		total += n
	}

	return total
}
