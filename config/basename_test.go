// Copyright 2021, the HERVx contributors.

package config

import "testing"

func TestDeriveBasename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"S25_WT_1.fastq", "S25_WT"},
		{"S25_WT_2.fastq", "S25_WT"},
		{"S25_WT_1.fastq.gz", "S25_WT"},
		{"sample_R1.fq.gz", "sample"},
		{"sample.R2.fastq", "sample"},
		{"sample_R1_001.fastq.gz", "sample"},
		{"reads.1.fastq", "reads"},
		{"/data/run4/S25_WT_1.fastq", "S25_WT"},
		// No recognized mate suffix: only the extensions come off.
		{"plain.fastq", "plain"},
		{"plain.fq", "plain"},
		// Exactly one suffix is stripped even when several could match.
		{"S25_WT_1_R1.fastq", "S25_WT_1"},
		{"x_R1_001_R1.fastq", "x_R1_001"},
	}

	for _, tc := range tests {
		if got := DeriveBasename(tc.in); got != tc.want {
			t.Errorf("DeriveBasename(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
