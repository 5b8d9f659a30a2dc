// munge_sumstats converts GWAS summary statistics into the LDSC .sumstats
// format: it resolves column names, applies QC filters and writes SNP, A1, A2,
// N and Z to <out>.sumstats.gz, with a log in <out>.log.
package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"
	"runtime"
	"time"

	"github.com/carbocation/ldscmunge/colname"
	"github.com/carbocation/ldscmunge/compileinfo"
	"github.com/carbocation/ldscmunge/sumstats"
)

func main() {
	o := sumstats.DefaultOptions()

	var n, nCas, nCon, nMin, nStudyMin nullFloat
	var ignore string

	flag.StringVar(&o.Sumstats, "sumstats", "", "Input filename. Local paths and gs://bucket/object are accepted; gzip, bzip2, xz, zlib and zip are detected automatically.")
	flag.StringVar(&o.Out, "out", "", "Output filename prefix. Writes <out>.sumstats.gz and <out>.log.")
	flag.Float64Var(&o.InfoMin, "info-min", o.InfoMin, "Minimum INFO score.")
	flag.Float64Var(&o.MafMin, "maf-min", o.MafMin, "Minimum MAF.")
	flag.Var(&n, "N", "Sample size. If this option is not set, will try to infer the sample size from the input file. If the input file contains a sample size column, and this flag is set, the argument to this flag has priority.")
	flag.Var(&nCas, "N-cas", "Number of cases. If this option is not set, will try to infer the number of cases from the input file.")
	flag.Var(&nCon, "N-con", "Number of controls. If this option is not set, will try to infer the number of controls from the input file.")
	flag.Var(&nMin, "n-min", "Minimum N (sample size). Default is (90th percentile N) / 1.5.")
	flag.Var(&nStudyMin, "nstudy-min", "Minimum # of studies. Default is to remove everything below the max, unless there is an N column, in which case do nothing.")

	flag.StringVar(&o.Columns.SNP, "snp", "", "Name of SNP column (if not a name that munge_sumstats understands).")
	flag.StringVar(&o.Columns.N, "N-col", "", "Name of N column (if not a name that munge_sumstats understands).")
	flag.StringVar(&o.Columns.NCas, "N-cas-col", "", "Name of N_cas column (if not a name that munge_sumstats understands).")
	flag.StringVar(&o.Columns.NCon, "N-con-col", "", "Name of N_con column (if not a name that munge_sumstats understands).")
	flag.StringVar(&o.Columns.A1, "a1", "", "Name of A1 column (if not a name that munge_sumstats understands).")
	flag.StringVar(&o.Columns.A2, "a2", "", "Name of A2 column (if not a name that munge_sumstats understands).")
	flag.StringVar(&o.Columns.P, "p", "", "Name of p-value column (if not a name that munge_sumstats understands).")
	flag.StringVar(&o.Columns.Frq, "frq", "", "Name of FRQ or MAF column (if not a name that munge_sumstats understands).")
	flag.StringVar(&o.Columns.SignedSumstats, "signed-sumstats", "", "Name of signed sumstat column, comma null value (e.g., Z,0 or OR,1). NB: case insensitive.")
	flag.StringVar(&o.Columns.Info, "info", "", "Name of INFO column (if not a name that munge_sumstats understands).")
	flag.StringVar(&o.Columns.InfoList, "info-list", "", "Comma-separated list of INFO columns. Will filter on the mean.")
	flag.StringVar(&o.Columns.NStudy, "nstudy", "", "Name of NSTUDY column (if not a name that munge_sumstats understands).")
	flag.StringVar(&ignore, "ignore", "", "Comma-separated list of column names to ignore.")

	flag.BoolVar(&o.A1Inc, "a1-inc", false, "A1 is the increasing allele.")
	flag.BoolVar(&o.NoAlleles, "no-alleles", false, "Don't require alleles. Useful if only unsigned summary statistics are available and the goal is h2 / partitioned h2 estimation rather than rg estimation.")
	flag.StringVar(&o.MergeAlleles, "merge-alleles", "", "Reference panel with columns SNP, A1, A2 (or a PLINK .bim file). Only SNPs in the panel with matching alleles are kept, and the output lists every panel SNP in panel order.")
	flag.BoolVar(&o.KeepMAF, "keep-maf", false, "Keep the MAF column (if one exists).")
	flag.IntVar(&o.ChunkSize, "chunksize", o.ChunkSize, "Chunksize.")
	flag.IntVar(&o.Threads, "threads", runtime.NumCPU(), "Number of goroutines used to convert p-values to Z scores.")
	flag.BoolVar(&o.PlotChiSq, "plot-chisq", false, "Print a histogram of the final chi^2 statistics into the log.")
	flag.Parse()

	if o.Sumstats == "" || o.Out == "" {
		log.Println("munge_sumstats: --sumstats and --out are required")
		flag.PrintDefaults()
		os.Exit(1)
	}

	o.N, o.NCas, o.NCon = n.Float, nCas.Float, nCon.Float
	o.NMin, o.NStudyMin = nMin.Float, nStudyMin.Float
	o.Ignore = splitList(ignore)

	logFile, err := os.Create(o.Out + ".log")
	if err != nil {
		log.Fatalln(err)
	}
	defer logFile.Close()

	logger := log.New(io.MultiWriter(os.Stderr, logFile), "", log.LstdFlags)
	o.Logger = logger

	logger.Println(compileinfo.Get())
	logger.Println("Call:", os.Args)

	start := time.Now()
	if _, err := sumstats.Run(context.Background(), o); err != nil {
		logger.Println(err)
		logFile.Close()
		log.Fatalln("munge_sumstats failed")
	}

	logger.Println("Conversion finished at", time.Now().Format(time.RFC1123))
	logger.Printf("Analysis finished. Elapsed time: %s\n", time.Since(start).Round(time.Second))
}

// Usage also lists every recognized column spelling.
func init() {
	usage := flag.Usage
	flag.Usage = func() {
		usage()
		w := flag.CommandLine.Output()
		io.WriteString(w, "\nRecognized column names:\n")
		for _, s := range colname.DefaultSynonyms {
			io.WriteString(w, "  "+s.Spelling+"\t"+string(s.Field)+"\n")
		}
	}
}
