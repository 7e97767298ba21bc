package cli

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/neuroc/pkg/jitter"
)

// fileConfig is the --config TOML file. Every key is optional:
//
//	[shrink]
//	heights = [0.0, 50.0, 100.0]
//
//	[clone.rotation]
//	mean_angle = 0.0
//	std_angle = 10.0
//	piece_number = 5
//
//	[clone.section]
//	mean = 1.0
//	std = 0.1
//	axis = -1
type fileConfig struct {
	Shrink shrinkConfig           `toml:"shrink"`
	Clone  jitter.CloneParameters `toml:"clone"`
}

type shrinkConfig struct {
	Heights  []float64 `toml:"heights"`
	NSamples int       `toml:"nsamples"`
}

// loadConfig reads a config file. Keys the file leaves out keep their
// default. An empty path returns the defaults.
func loadConfig(path string) (fileConfig, error) {
	cfg := fileConfig{Clone: jitter.DefaultClone()}
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	meta, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return cfg, fmt.Errorf("parse config %s: unknown key %q", path, undecoded[0].String())
	}
	return cfg, nil
}
