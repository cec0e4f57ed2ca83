// Copyright 2021, the HERVx contributors.

// hervx launches the HERVx pipeline: a containerized workflow that
// quantifies human endogenous retrovirus (HERV) expression from
// paired-end RNA-seq reads.
//
// The launcher resolves command-line arguments into an immutable run
// configuration, stages a self-contained workspace (input symlinks plus
// a frozen copy of the pipeline definition), materializes the concrete
// engine descriptor, and drives the external workflow engine to
// completion. The pipeline stages themselves -- cutadapt trimming,
// bowtie2 alignment, samtools conversion and sorting, telescope
// quantification -- run inside the pipeline container and are not
// re-implemented here.
//
// A typical invocation on a workstation:
//
// hervx local -r1 S25_WT_1.fastq -r2 S25_WT_2.fastq -o /data/S25_WT
//
// On a cluster, replace 'local' with 'slurm' to submit each workflow
// rule through the resource manager. The final counts are written to
// <outdir>/telescope/<basename>/telescope-telescope_report.tsv.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/CCBR/HERVx/config"
	"github.com/CCBR/HERVx/descriptor"
	"github.com/CCBR/HERVx/executor"
	"github.com/CCBR/HERVx/workspace"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(argv []string) error {
	cfg, err := config.Resolve(argv)
	if err != nil {
		return err
	}

	ws, err := workspace.Init(cfg, workspace.PipelineHome())
	if err != nil {
		return err
	}
	slog.Info("workspace staged", "dir", ws.Dir, "basename", cfg.Basename)

	if err := cfg.Save(filepath.Join(ws.Dir, "run_config.json")); err != nil {
		return err
	}

	// The descriptor references the staged symlinks, not the caller's
	// original input locations.
	values := cfg.Placeholders()
	values["read1"] = ws.Read1
	values["read2"] = ws.Read2
	values["outdir"] = ws.Dir
	if err := descriptor.Build(ws.ConfigTemplate(), ws.Descriptor(), values); err != nil {
		return err
	}

	profiles, err := executor.LoadProfiles(ws.ProfilesPath())
	if err != nil {
		return err
	}
	ex, err := executor.New(cfg.Backend, profiles, ws)
	if err != nil {
		return err
	}
	return ex.Run(cfg)
}
