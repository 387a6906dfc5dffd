// Package main provides the adbench CLI: it sweeps benchmark functors over a
// range of input sizes, timing forward/backward passes and checking each
// gradient against its closed form.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/born-ml/adarena/internal/bench"
	"github.com/born-ml/adarena/internal/parallel"
)

const version = "v0.1.0-dev"

// defaultMaxSize caps the CLI sweep below bench.MaxSizeIter so a plain run
// finishes quickly; pass -max to sweep the full range.
const defaultMaxSize = 1 << 14

func main() {
	cfg := bench.DefaultConfig()
	funcs := flag.String("func", "all", "comma-separated functors to run, or \"all\"")
	flag.IntVar(&cfg.MinSize, "min", cfg.MinSize, "smallest input size")
	flag.IntVar(&cfg.MaxSize, "max", defaultMaxSize,
		fmt.Sprintf("largest input size (full sweep: %d)", bench.MaxSizeIter))
	flag.IntVar(&cfg.Multiplier, "mult", cfg.Multiplier, "size multiplier between runs")
	flag.IntVar(&cfg.Iterations, "iters", cfg.Iterations, "forward/backward pairs timed per size")
	flag.Float64Var(&cfg.Tolerance, "tol", cfg.Tolerance, "absolute gradient tolerance")
	workers := flag.Int("workers", 1, "sizes evaluated concurrently")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("adbench %s\n", version)
		return
	}
	if *workers > 1 {
		cfg.Parallel = parallel.Config{Enabled: true, NumWorkers: *workers}
	}

	selected, err := selectFunctors(*funcs)
	if err != nil {
		log.Fatalf("adbench: %v", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FUNCTOR\tN\tVALUE\tARENA\tNS/ITER\tSTATUS")
	failed := false
	for _, f := range selected {
		results, err := bench.Sweep(f, cfg)
		if err != nil {
			log.Fatalf("adbench: %v", err)
		}
		for _, r := range results {
			status, ok := resultStatus(r)
			if !ok {
				failed = true
			}
			fmt.Fprintf(w, "%s\t%d\t%.6g\t%s\t%d\t%s\n",
				r.Functor, r.N, r.Value, r.Arena, r.PerIteration().Nanoseconds(), status)
		}
	}
	if err := w.Flush(); err != nil {
		log.Fatalf("adbench: %v", err)
	}
	if failed {
		os.Exit(1)
	}
}

// resultStatus renders the check outcome of r. Either a gradient or a value
// mismatch fails the run.
func resultStatus(r bench.Result) (string, bool) {
	switch {
	case !r.GradientOK:
		return fmt.Sprintf("MISMATCH@%d", r.Mismatch.Index), false
	case !r.ValueOK:
		return "VALUE MISMATCH", false
	default:
		return "ok", true
	}
}

// selectFunctors resolves a comma-separated list of functor names.
func selectFunctors(list string) ([]bench.Functor, error) {
	all := bench.Functors()
	names := make([]string, 0, len(all))
	for name := range all {
		names = append(names, name)
	}
	sort.Strings(names)

	if list == "all" {
		out := make([]bench.Functor, 0, len(names))
		for _, name := range names {
			out = append(out, all[name])
		}
		return out, nil
	}

	var out []bench.Functor
	for _, name := range strings.Split(list, ",") {
		f, ok := all[strings.TrimSpace(name)]
		if !ok {
			return nil, fmt.Errorf("unknown functor %q (available: %s)", name, strings.Join(names, ", "))
		}
		out = append(out, f)
	}
	return out, nil
}
