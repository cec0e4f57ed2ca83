// Copyright 2021, the HERVx contributors.

// Package descriptor materializes the concrete engine descriptor from
// the staged template by substituting run-configuration values for
// __name__ placeholder tokens.
package descriptor

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/samber/lo"
)

var placeholderRe = regexp.MustCompile(`__[a-zA-Z][a-zA-Z0-9_]*__`)

// Render substitutes every __key__ token in data with its value,
// applying keys in sorted order so the result never depends on map
// iteration order. The set of tokens in the template must be a subset
// of the value keys; a token left unresolved is a configuration defect
// and is reported, not passed through.
func Render(data []byte, values map[string]string) ([]byte, error) {
	keys := lo.Keys(values)
	sort.Strings(keys)

	out := string(data)
	for _, key := range keys {
		out = strings.ReplaceAll(out, "__"+key+"__", values[key])
	}
	if left := lo.Uniq(placeholderRe.FindAllString(out, -1)); len(left) > 0 {
		sort.Strings(left)
		return nil, fmt.Errorf("unresolved placeholders in descriptor template: %s",
			strings.Join(left, ", "))
	}
	return []byte(out), nil
}

// Build reads the template, renders it against values, and writes the
// concrete descriptor, replacing any descriptor from a prior run.
func Build(template, out string, values map[string]string) error {
	data, err := os.ReadFile(template)
	if err != nil {
		return fmt.Errorf("reading descriptor template: %w", err)
	}
	rendered, err := Render(data, values)
	if err != nil {
		return err
	}
	if err := os.WriteFile(out, rendered, 0644); err != nil {
		return fmt.Errorf("writing descriptor %s: %w", out, err)
	}
	return nil
}
