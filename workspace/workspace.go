// Copyright 2021, the HERVx contributors.

// Package workspace establishes the run-scoped output directory: stable
// symlinks to the input reads plus a frozen copy of the pipeline
// definition, so a run is self-contained and unaffected by concurrent
// edits to the shared templates.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/CCBR/HERVx/config"
)

// DefaultPipelineHome is where the container image installs the static
// pipeline definition (Snakefile and config tree).
const DefaultPipelineHome = "/opt2"

// Workspace is a staged output directory.
type Workspace struct {
	// Dir is the absolute output directory.
	Dir string

	// Read1 and Read2 are the staged symlinks, absolute.
	Read1 string
	Read2 string
}

// PipelineHome resolves the directory holding the static pipeline
// definition, from HERVX_PIPELINE_HOME when set.
func PipelineHome() string {
	if home := os.Getenv("HERVX_PIPELINE_HOME"); home != "" {
		return home
	}
	return DefaultPipelineHome
}

// Init establishes the workspace for cfg: the output directory, the
// input symlinks, and the frozen pipeline definition copied from
// pipelineHome. Init is idempotent; re-running over a stale workspace
// replaces the links and staged files rather than failing.
func Init(cfg *config.Config, pipelineHome string) (*Workspace, error) {
	dir, err := filepath.Abs(cfg.Outdir)
	if err != nil {
		return nil, fmt.Errorf("resolving output directory %s: %w", cfg.Outdir, err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("cannot create output directory %s (check permissions): %w", dir, err)
	}

	ws := &Workspace{Dir: dir}
	if ws.Read1, err = stageLink(cfg.Read1, dir, "R1"); err != nil {
		return nil, err
	}
	if ws.Read2, err = stageLink(cfg.Read2, dir, "R2"); err != nil {
		return nil, err
	}

	src := filepath.Join(pipelineHome, "Snakefile")
	if err := copyFile(src, ws.Snakefile()); err != nil {
		return nil, fmt.Errorf("staging pipeline definition from %s: %w", src, err)
	}
	src = filepath.Join(pipelineHome, "config")
	if err := copyTree(src, filepath.Join(dir, "config")); err != nil {
		return nil, fmt.Errorf("staging backend configuration from %s: %w", src, err)
	}
	return ws, nil
}

// stageLink creates (or replaces) a symlink to input inside dir and
// returns the link path. The mate tag keeps the two links distinct
// even when both reads carry the same filename in different
// directories.
func stageLink(input, dir, mate string) (string, error) {
	target, err := filepath.Abs(input)
	if err != nil {
		return "", fmt.Errorf("resolving input %s: %w", input, err)
	}
	link := filepath.Join(dir, mate+"_"+filepath.Base(input))
	if err := os.Remove(link); err != nil && !os.IsNotExist(err) {
		return "", fmt.Errorf("removing stale link %s: %w", link, err)
	}
	if err := os.Symlink(target, link); err != nil {
		return "", fmt.Errorf("linking %s into workspace: %w", input, err)
	}
	return link, nil
}

// Snakefile is the frozen workflow definition.
func (w *Workspace) Snakefile() string { return filepath.Join(w.Dir, "Snakefile") }

// ConfigTemplate is the staged descriptor template.
func (w *Workspace) ConfigTemplate() string { return filepath.Join(w.Dir, "config", "config.json") }

// Descriptor is the concrete, fully substituted engine descriptor.
func (w *Workspace) Descriptor() string { return filepath.Join(w.Dir, "config.json") }

// ClusterConfig is the staged per-rule resource configuration.
func (w *Workspace) ClusterConfig() string { return filepath.Join(w.Dir, "config", "cluster.json") }

// ProfilesPath is the staged execution-backend registry.
func (w *Workspace) ProfilesPath() string { return filepath.Join(w.Dir, "config", "profiles.toml") }

// CacheDir is the workspace-scoped container cache, isolating this run
// from concurrent runs in other workspaces.
func (w *Workspace) CacheDir() string { return filepath.Join(w.Dir, ".singularity") }

// LogDir holds per-invocation engine logs.
func (w *Workspace) LogDir() string { return filepath.Join(w.Dir, "logs") }

// ReportPath is the single terminal artifact of a run.
func (w *Workspace) ReportPath(basename string) string {
	return filepath.Join(w.Dir, "telescope", basename, "telescope-telescope_report.tsv")
}
