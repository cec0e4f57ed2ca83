// Copyright 2021, the HERVx contributors.

package executor

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/samber/lo"
)

const defaultImage = "docker://nciccbr/ccbr_hervx:latest"

// Profile describes how one execution backend drives the workflow
// engine.
type Profile struct {
	// Jobs caps how many engine jobs run at once; 1 for serial local
	// execution.
	Jobs int `toml:"jobs"`

	// Submit is the resource-manager submission template the engine
	// wraps around each rule. Empty for local execution.
	Submit string `toml:"submit"`

	// PullImage warms the workspace container cache by pulling the
	// image under the shared lock before the engine starts.
	PullImage bool `toml:"pull_image"`

	// Image is the container the pipeline stages run in.
	Image string `toml:"image"`
}

// builtinProfiles are the two supported backends.
func builtinProfiles() map[string]Profile {
	return map[string]Profile{
		"local": {
			Jobs:  1,
			Image: defaultImage,
		},
		"slurm": {
			Jobs: 32,
			Submit: "sbatch --cpus-per-task={cluster.threads} --mem={cluster.mem}" +
				" --time={cluster.time} --partition={cluster.partition}" +
				" --output={cluster.output} --error={cluster.error}",
			PullImage: true,
			Image:     defaultImage,
		},
	}
}

// LoadProfiles returns the backend profiles. A profile defined in the
// staged TOML registry at path replaces the built-in of the same name;
// a missing registry leaves the built-ins untouched.
func LoadProfiles(path string) (map[string]Profile, error) {
	profiles := builtinProfiles()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return profiles, nil
	}
	var staged map[string]Profile
	if _, err := toml.DecodeFile(path, &staged); err != nil {
		return nil, fmt.Errorf("parsing backend profiles %s: %w", path, err)
	}
	for name, p := range staged {
		profiles[name] = p
	}
	return profiles, nil
}

// Select returns the named profile. An unrecognized name is a fatal,
// user-facing error, never a silent fallback.
func Select(profiles map[string]Profile, name string) (Profile, error) {
	p, ok := profiles[name]
	if !ok {
		known := lo.Keys(profiles)
		sort.Strings(known)
		return Profile{}, fmt.Errorf("unsupported execution backend %q (supported: %s)",
			name, strings.Join(known, ", "))
	}
	return p, nil
}
