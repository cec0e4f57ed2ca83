// Copyright 2021, the HERVx contributors.

package config

import (
	"path/filepath"
	"strings"
)

// mateSuffixes lists the recognized mate-pair suffix patterns in
// priority order. The first matching pattern wins and exactly one
// suffix is ever removed, so composite patterns must come before their
// own substrings.
var mateSuffixes = []string{
	"_R1_001",
	"_R2_001",
	".R1.001",
	".R2.001",
	"_R1",
	"_R2",
	".R1",
	".R2",
	"_1",
	"_2",
	".1",
	".2",
}

// readExtensions are stripped (at most one) before the mate suffix is
// considered.
var readExtensions = []string{".fastq", ".fq"}

// DeriveBasename produces the stable sample identifier from the read-1
// filename: one compression suffix, one read extension, then exactly
// one mate-pair suffix are stripped, in that order.
func DeriveBasename(read1 string) string {
	name := filepath.Base(read1)
	name = strings.TrimSuffix(name, ".gz")

	for _, ext := range readExtensions {
		if strings.HasSuffix(name, ext) {
			name = strings.TrimSuffix(name, ext)
			break
		}
	}

	for _, suf := range mateSuffixes {
		if strings.HasSuffix(name, suf) {
			return strings.TrimSuffix(name, suf)
		}
	}
	return name
}
