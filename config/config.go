// Copyright 2021, the HERVx contributors.

// Package config resolves one launcher invocation into an immutable run
// configuration. The configuration is built once, at parse time, and is
// never mutated afterwards; every downstream stage receives it by
// reference.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// Version of the launcher, overridable at build time via -ldflags.
var Version = "1.0.2"

// Defaults for the optional parameters.
const (
	DefaultThreads = 2
	DefaultGTF     = "HERV_rmsk.hg38.v2.genes.gtf"
	DefaultPrior   = 200000
	DefaultMaxIter = 200
)

// The two supported execution backends.
const (
	BackendLocal = "local"
	BackendSlurm = "slurm"
)

// Config is the resolved set of parameters for one pipeline run.
type Config struct {
	// Paired-end sequencing reads, as given on the command line.
	Read1 string `json:"read1"`
	Read2 string `json:"read2"`

	// The output directory; becomes the workspace.
	Outdir string `json:"outdir"`

	// The sample identifier used to name every downstream artifact.
	// Derived from Read1 unless given explicitly.
	Basename string `json:"basename"`

	// Threads given to each pipeline stage.
	Threads int `json:"threads"`

	// The transcript annotation consumed by the quantification stage.
	GTF string `json:"gtf"`

	// Prior strength (theta) for the Bayesian reassignment model.
	Prior int `json:"prior"`

	// Iteration cap for the EM fit.
	MaxIter int `json:"max_iter"`

	// The selected execution backend, local or slurm.
	Backend string `json:"backend"`
}

// Placeholders returns the substitution table for the descriptor
// template. A key k in this table resolves the template token __k__.
func (c *Config) Placeholders() map[string]string {
	return map[string]string{
		"read1":    c.Read1,
		"read2":    c.Read2,
		"outdir":   c.Outdir,
		"basename": c.Basename,
		"gtf":      c.GTF,
		"threads":  strconv.Itoa(c.Threads),
		"prior":    strconv.Itoa(c.Prior),
		"max_iter": strconv.Itoa(c.MaxIter),
	}
}

// Save writes the resolved configuration as JSON so the workspace
// records exactly what it was run with.
func (c *Config) Save(path string) error {
	fid, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("saving run configuration to %s: %w", path, err)
	}
	defer fid.Close()

	enc := json.NewEncoder(fid)
	enc.SetIndent("", "  ")
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("encoding run configuration: %w", err)
	}
	return nil
}
