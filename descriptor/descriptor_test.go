// Copyright 2021, the HERVx contributors.

package descriptor

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const template = `{
    "basename": "__basename__",
    "read1": "__read1__",
    "read2": "__read2__",
    "outdir": "__outdir__",
    "gtf": "__gtf__",
    "threads": "__threads__",
    "prior": "__prior__",
    "max_iter": "__max_iter__"
}`

func values() map[string]string {
	return map[string]string{
		"basename": "S25_WT",
		"read1":    "/ws/S25_WT_1.fastq",
		"read2":    "/ws/S25_WT_2.fastq",
		"outdir":   "/ws",
		"gtf":      "HERV_rmsk.hg38.v2.genes.gtf",
		"threads":  "2",
		"prior":    "200000",
		"max_iter": "200",
	}
}

func TestRenderSubstitutesEverything(t *testing.T) {
	out, err := Render([]byte(template), values())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if got := placeholderRe.FindAllString(string(out), -1); len(got) != 0 {
		t.Errorf("placeholders remain after substitution: %v", got)
	}
	if !strings.Contains(string(out), `"read1": "/ws/S25_WT_1.fastq"`) {
		t.Errorf("read1 not substituted:\n%s", out)
	}
	if !strings.Contains(string(out), `"max_iter": "200"`) {
		t.Errorf("max_iter not substituted:\n%s", out)
	}
}

func TestRenderRejectsUnresolved(t *testing.T) {
	vals := values()
	delete(vals, "gtf")
	delete(vals, "prior")

	_, err := Render([]byte(template), vals)
	if err == nil {
		t.Fatal("Render succeeded with unresolved placeholders")
	}
	for _, tok := range []string{"__gtf__", "__prior__"} {
		if !strings.Contains(err.Error(), tok) {
			t.Errorf("error %q does not name %s", err, tok)
		}
	}
}

func TestRenderDeterministicOrder(t *testing.T) {
	// A value that textually contains another key's token must render
	// the same way on every run: keys apply in sorted order, so the
	// token injected by "basename" is resolved by the later "gtf".
	vals := map[string]string{
		"basename": "x__gtf__",
		"gtf":      "G",
	}
	for i := 0; i < 10; i++ {
		out, err := Render([]byte("__basename__"), vals)
		if err != nil {
			t.Fatalf("Render failed: %v", err)
		}
		if string(out) != "xG" {
			t.Fatalf("Render = %q, want %q", out, "xG")
		}
	}
}

func TestRenderValueSupersetAllowed(t *testing.T) {
	vals := values()
	vals["unused"] = "x"
	if _, err := Render([]byte(template), vals); err != nil {
		t.Errorf("Render failed with surplus value keys: %v", err)
	}
}

func TestBuild(t *testing.T) {
	dir := t.TempDir()
	tmpl := filepath.Join(dir, "config.json.in")
	out := filepath.Join(dir, "config.json")
	if err := os.WriteFile(tmpl, []byte(template), 0644); err != nil {
		t.Fatal(err)
	}

	if err := Build(tmpl, out, values()); err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "__") {
		t.Errorf("descriptor still contains placeholder syntax:\n%s", data)
	}
}

func TestBuildMissingTemplate(t *testing.T) {
	dir := t.TempDir()
	err := Build(filepath.Join(dir, "absent.json"), filepath.Join(dir, "out.json"), values())
	if err == nil {
		t.Fatal("Build succeeded with a missing template")
	}
}
