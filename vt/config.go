package vt

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	defaultScrollback      = 2000
	defaultRepaintFraction = 0.6
	defaultMergeGap        = 2
	defaultSixelCellW      = 10
	defaultSixelCellH      = 20
	defaultSixelMaxW       = 1000
	defaultSixelMaxH       = 1000
)

// ScrollbackConfig bounds the history ring.
type ScrollbackConfig struct {
	MaxLines int `yaml:"max_lines"`
}

// SixelConfig bounds the decoder and sets the rasterization block size.
type SixelConfig struct {
	// CellWidth/CellHeight: the pixel block one character cell covers.
	CellWidth  int `yaml:"cell_width"`
	CellHeight int `yaml:"cell_height"`
	// MaxWidth/MaxHeight cap the decoded pixel grid; pixels beyond are
	// dropped rather than grown without bound.
	MaxWidth  int `yaml:"max_width"`
	MaxHeight int `yaml:"max_height"`
}

// Config carries the engine's tunables. The zero value is usable: missing
// fields fall back to defaults when a Session is built.
type Config struct {
	Scrollback ScrollbackConfig `yaml:"scrollback"`
	Diff       DiffConfig       `yaml:"diff"`
	Sixel      SixelConfig      `yaml:"sixel"`
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		Scrollback: ScrollbackConfig{MaxLines: defaultScrollback},
		Diff:       DiffConfig{RepaintFraction: defaultRepaintFraction, MergeGap: defaultMergeGap},
		Sixel: SixelConfig{
			CellWidth:  defaultSixelCellW,
			CellHeight: defaultSixelCellH,
			MaxWidth:   defaultSixelMaxW,
			MaxHeight:  defaultSixelMaxH,
		},
	}
}

// fillDefaults replaces zero fields with defaults so a partial YAML file
// only overrides what it names.
func (c Config) fillDefaults() Config {
	d := DefaultConfig()
	if c.Scrollback.MaxLines == 0 {
		c.Scrollback.MaxLines = d.Scrollback.MaxLines
	}
	if c.Scrollback.MaxLines < 0 {
		c.Scrollback.MaxLines = 0
	}
	if c.Diff.RepaintFraction <= 0 {
		c.Diff.RepaintFraction = d.Diff.RepaintFraction
	}
	if c.Diff.MergeGap == 0 {
		c.Diff.MergeGap = d.Diff.MergeGap
	}
	if c.Diff.MergeGap < 0 {
		// Negative means merging is explicitly off.
		c.Diff.MergeGap = 0
	}
	if c.Sixel.CellWidth <= 0 {
		c.Sixel.CellWidth = d.Sixel.CellWidth
	}
	if c.Sixel.CellHeight <= 0 {
		c.Sixel.CellHeight = d.Sixel.CellHeight
	}
	if c.Sixel.MaxWidth <= 0 {
		c.Sixel.MaxWidth = d.Sixel.MaxWidth
	}
	if c.Sixel.MaxHeight <= 0 {
		c.Sixel.MaxHeight = d.Sixel.MaxHeight
	}
	return c
}

// LoadConfig reads a YAML config file; fields not present keep their
// defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return c.fillDefaults(), nil
}
