// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Practice PracticeConfig `toml:"practice"`
}

// PracticeConfig maps practice-related settings. Nil means unset.
type PracticeConfig struct {
	Lang            *string  `toml:"lang"`
	Mode            *string  `toml:"mode"`
	Words           *int     `toml:"words"`
	Duration        *int     `toml:"duration"`
	Punctuation     *bool    `toml:"punctuation"`
	Numbers         *bool    `toml:"numbers"`
	PunctuationRate *float64 `toml:"punctuation-rate"`
	NumbersRate     *float64 `toml:"numbers-rate"`
	Difficulty      *string  `toml:"difficulty"`
	Level           *string  `toml:"level"`
	AllowRepeat     *bool    `toml:"repeat"`
	Seed            *string  `toml:"seed"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
