// Package engineconfig loads engine configuration from a YAML file, the way
// tabular's reinforcement package loaded training hyperparameters: an outer
// viper read followed by a strict yaml.v3 unmarshal into a concrete struct.
package engineconfig

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds the knobs the rule engine and its debug server take from the
// outside world; everything else (movement tables, stock counts, action
// space) is fixed by the rules and lives in code, not config. The yaml tags
// are lowercase because viper lowercases every key it reads, including the
// keys under "def", before FromYaml re-decodes them.
type Config struct {
	// MoveLimit is the ply count at which a game is declared a draw. Zero
	// means "use the engine's built-in default".
	MoveLimit int `yaml:"movelimit"`

	// Seed seeds the RNG used for SampleAssignment and self-play action
	// selection. Zero means "use seed 1" at the call site (main.go); Config
	// itself never touches the clock.
	Seed int64 `yaml:"seed"`

	// DevServerAddr is the listen address for the optional debug websocket
	// server (internal/devserver). Empty disables it.
	DevServerAddr string `yaml:"devserveraddr"`
}

// outerConfig mirrors reinforcement.OuterConfig: viper reads the top-level
// "kind"/"def" envelope, and the "def" payload is re-marshaled and decoded
// into the concrete Config, so the YAML file can carry a kind discriminator
// for future config variants without Config needing to know about it.
type outerConfig struct {
	Kind string      `mapstructure:"kind"`
	Def  interface{} `mapstructure:"def"`
}

// Default is the configuration used when no file is supplied.
func Default() Config {
	return Config{MoveLimit: 0, Seed: 0, DevServerAddr: ""}
}

// FromYaml reads path and decodes it into a Config, following the same
// viper-then-yaml.v3 round-trip reinforcement.FromYaml uses.
func FromYaml(path string) (Config, error) {
	vp := viper.New()
	vp.SetConfigFile(path)
	vp.SetConfigType("yaml")
	vp.AddConfigPath(filepath.Dir(path))

	if err := vp.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("engineconfig: reading %s: %w", path, err)
	}

	outer := &outerConfig{}
	if err := vp.Unmarshal(outer); err != nil {
		return Config{}, fmt.Errorf("engineconfig: decoding outer envelope: %w", err)
	}

	spec, err := yaml.Marshal(outer.Def)
	if err != nil {
		return Config{}, fmt.Errorf("engineconfig: re-marshaling config body: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(spec, &cfg); err != nil {
		return Config{}, fmt.Errorf("engineconfig: decoding config body: %w", err)
	}

	return cfg, nil
}
