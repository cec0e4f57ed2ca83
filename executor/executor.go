// Copyright 2021, the HERVx contributors.

// Package executor drives the external workflow engine against a
// staged workspace. It owns no scheduling of its own: one synchronous
// engine invocation per run, with per-workspace container-cache
// isolation and a bounded-wait lock around shared image pulls.
package executor

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/CCBR/HERVx/config"
	"github.com/CCBR/HERVx/workspace"
)

// Executor runs the workflow engine for one workspace under one
// backend profile.
type Executor struct {
	// Engine is the workflow engine binary.
	Engine string

	// Runtime is the container runtime binary used for image pulls.
	Runtime string

	Profile   Profile
	Workspace *workspace.Workspace

	// LockPath and LockTimeout configure the shared image-pull lock.
	LockPath    string
	LockTimeout time.Duration
}

// New selects the named backend profile and returns an executor bound
// to ws.
func New(backend string, profiles map[string]Profile, ws *workspace.Workspace) (*Executor, error) {
	p, err := Select(profiles, backend)
	if err != nil {
		return nil, err
	}
	return &Executor{
		Engine:      "snakemake",
		Runtime:     "singularity",
		Profile:     p,
		Workspace:   ws,
		LockPath:    lockPath(),
		LockTimeout: PullLockTimeout,
	}, nil
}

// Run drives the engine to completion. Success and failure are defined
// entirely by the engine's exit status; no partial-failure recovery is
// attempted here.
func (e *Executor) Run(cfg *config.Config) error {
	if _, err := exec.LookPath(e.Engine); err != nil {
		return fmt.Errorf("workflow engine %s not found (is the environment module loaded?): %w", e.Engine, err)
	}

	ws := e.Workspace
	if err := os.MkdirAll(ws.CacheDir(), 0755); err != nil {
		return fmt.Errorf("creating container cache %s: %w", ws.CacheDir(), err)
	}
	if err := os.MkdirAll(ws.LogDir(), 0755); err != nil {
		return fmt.Errorf("creating log directory %s: %w", ws.LogDir(), err)
	}

	if e.Profile.PullImage {
		if err := e.warmCache(); err != nil {
			return err
		}
	}

	logPath := filepath.Join(ws.LogDir(), fmt.Sprintf("run-%s.log", uuid.NewString()))
	logFile, err := os.Create(logPath)
	if err != nil {
		return fmt.Errorf("creating engine log %s: %w", logPath, err)
	}
	defer logFile.Close()

	cmd := exec.Command(e.Engine, e.engineArgs(cfg)...)
	cmd.Env = append(os.Environ(), "SINGULARITY_CACHEDIR="+ws.CacheDir())
	cmd.Stdout = io.MultiWriter(os.Stdout, logFile)
	cmd.Stderr = io.MultiWriter(os.Stderr, logFile)

	slog.Info("invoking workflow engine", "cmd", cmd, "log", logPath)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("workflow engine failed: %w", err)
	}

	slog.Info("run complete", "report", ws.ReportPath(cfg.Basename))
	return nil
}

// warmCache pulls the container image once, under the shared
// bounded-wait lock, so that the engine's own image fetch for every
// submitted rule hits an already-populated cache instead of racing
// other jobs on the same host. The engine is never pointed at the
// pulled .sif; it is written inside the cache directory only to keep
// the pull from dropping an artifact into the working directory.
func (e *Executor) warmCache() error {
	lock, err := acquireLock(e.LockPath, e.LockTimeout)
	if err != nil {
		return err
	}
	defer lock.Close()

	ws := e.Workspace
	cmd := exec.Command(e.Runtime, "pull", "--force",
		"--name", filepath.Join(ws.CacheDir(), "hervx.sif"), e.Profile.Image)
	cmd.Env = append(os.Environ(), "SINGULARITY_CACHEDIR="+ws.CacheDir())
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	slog.Info("warming container cache", "cmd", cmd)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("pulling container image %s: %w", e.Profile.Image, err)
	}
	return nil
}

// engineArgs assembles the synchronous engine invocation for this
// profile.
func (e *Executor) engineArgs(cfg *config.Config) []string {
	ws := e.Workspace
	args := []string{
		"--snakefile", ws.Snakefile(),
		"--configfile", ws.Descriptor(),
		"--cores", strconv.Itoa(cfg.Threads),
		"--use-singularity",
		"--singularity-args", "-B " + ws.Dir,
	}
	if e.Profile.Submit != "" {
		args = append(args,
			"--cluster-config", ws.ClusterConfig(),
			"--cluster", e.Profile.Submit,
			"--jobs", strconv.Itoa(e.Profile.Jobs),
			"--latency-wait", "120",
		)
	}
	return args
}
