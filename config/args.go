// Copyright 2021, the HERVx contributors.

package config

import (
	"flag"
	"fmt"
	"os"
)

// NewFlagSet returns the launcher's flag set with its usage text.
func NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), `%s: containerized HERV expression pipeline (version %s)

Quantifies human endogenous retrovirus expression from paired-end
RNA-seq reads: cutadapt trim, bowtie2 align, samtools sort, telescope
assign. All stages run inside the pipeline container and are driven by
the external workflow engine; this launcher only stages a run-scoped
workspace and invokes the engine.

Usage:
  %s <local|slurm> -r1 READ1 -r2 READ2 -o OUTDIR [options]

The first argument selects the execution backend: 'local' runs the
engine serially on the current host, 'slurm' submits each workflow rule
through the cluster resource manager.

Options:
`, name, Version, name)
		fs.PrintDefaults()
	}
	return fs
}

// Resolve parses argv into a run configuration, applying defaults and
// deriving the basename. It performs no filesystem mutation. A nil
// error with a nil config never occurs; help and version requests are
// reported as flag.ErrHelp.
func Resolve(argv []string) (*Config, error) {
	fs := NewFlagSet("hervx")

	if len(argv) == 0 {
		fs.Usage()
		return nil, fmt.Errorf("missing execution backend (%s or %s)", BackendLocal, BackendSlurm)
	}

	backend := argv[0]
	switch backend {
	case "-h", "--help", "help":
		fs.Usage()
		return nil, flag.ErrHelp
	case BackendLocal, BackendSlurm:
		// supported
	default:
		return nil, fmt.Errorf("unsupported execution backend %q (expected %s or %s)",
			backend, BackendLocal, BackendSlurm)
	}

	cfg := Config{Backend: backend}
	var version bool

	fs.StringVar(&cfg.Read1, "r1", "", "read-1 fastq file [required]")
	fs.StringVar(&cfg.Read1, "read-1", "", "read-1 fastq file [required]")
	fs.StringVar(&cfg.Read2, "r2", "", "read-2 fastq file [required]")
	fs.StringVar(&cfg.Read2, "read-2", "", "read-2 fastq file [required]")
	fs.StringVar(&cfg.Outdir, "o", "", "output directory [required]")
	fs.StringVar(&cfg.Outdir, "outdir", "", "output directory [required]")
	fs.StringVar(&cfg.Basename, "b", "", "sample basename (default: derived from read-1)")
	fs.StringVar(&cfg.Basename, "basename", "", "sample basename (default: derived from read-1)")
	fs.IntVar(&cfg.Threads, "t", DefaultThreads, "threads per pipeline stage")
	fs.IntVar(&cfg.Threads, "threads", DefaultThreads, "threads per pipeline stage")
	fs.StringVar(&cfg.GTF, "g", DefaultGTF, "transcript annotation for quantification")
	fs.StringVar(&cfg.GTF, "gtf", DefaultGTF, "transcript annotation for quantification")
	fs.IntVar(&cfg.Prior, "p", DefaultPrior, "theta prior for the reassignment model")
	fs.IntVar(&cfg.Prior, "prior", DefaultPrior, "theta prior for the reassignment model")
	fs.IntVar(&cfg.MaxIter, "m", DefaultMaxIter, "maximum EM iterations")
	fs.IntVar(&cfg.MaxIter, "max-iter", DefaultMaxIter, "maximum EM iterations")
	fs.BoolVar(&version, "version", false, "print version and exit")

	if err := fs.Parse(argv[1:]); err != nil {
		return nil, err
	}
	if version {
		fmt.Fprintf(os.Stdout, "hervx %s\n", Version)
		return nil, flag.ErrHelp
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected positional argument %q", fs.Arg(0))
	}

	if cfg.Read1 == "" {
		return nil, fmt.Errorf("-r1/--read-1 is required")
	}
	if cfg.Read2 == "" {
		return nil, fmt.Errorf("-r2/--read-2 is required")
	}
	if cfg.Outdir == "" {
		return nil, fmt.Errorf("-o/--outdir is required")
	}
	if cfg.Threads < 1 {
		return nil, fmt.Errorf("-t/--threads must be positive, got %d", cfg.Threads)
	}
	if cfg.Prior < 0 {
		return nil, fmt.Errorf("-p/--prior must be non-negative, got %d", cfg.Prior)
	}
	if cfg.MaxIter < 1 {
		return nil, fmt.Errorf("-m/--max-iter must be positive, got %d", cfg.MaxIter)
	}

	if cfg.Basename == "" {
		cfg.Basename = DeriveBasename(cfg.Read1)
	}
	return &cfg, nil
}
