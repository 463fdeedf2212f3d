// Package config loads test generation settings.
package config

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/djdv/go-cachehits"
	"github.com/djdv/go-cachehits/internal/trace"
)

// Placeholder is replaced by the case number in file name formats.
const Placeholder = "{}"

const (
	DefaultTestFormat   = "test" + Placeholder + ".dat"
	DefaultAnswerFormat = "ans" + Placeholder + ".dat"
	DefaultPolicy       = cachehits.PolicyOptimal
)

type Config struct {
	OutputPath   string            `toml:"output_path" yaml:"output_path"`
	Policy       cachehits.Policy  `toml:"policy" yaml:"policy"`
	Seed         int64             `toml:"seed" yaml:"seed"`
	Compression  trace.Compression `toml:"compression" yaml:"compression"`
	TestFormat   string            `toml:"test_format" yaml:"test_format"`
	AnswerFormat string            `toml:"answer_format" yaml:"answer_format"`

	Size     Size      `toml:"size" yaml:"size"`
	Normal   *Normal   `toml:"normal" yaml:"normal"`
	Uniform  *Uniform  `toml:"uniform" yaml:"uniform"`
	Triangle *Triangle `toml:"triangle" yaml:"triangle"`
}

// Size bounds the sampled capacity to [Lower, Upper).
type Size struct {
	Lower int `toml:"lower" yaml:"lower"`
	Upper int `toml:"upper" yaml:"upper"`
}

// Batch is the number of sequences of a distribution
// and the length of each.
type Batch struct {
	Length int `toml:"length" yaml:"length"`
	Number int `toml:"number" yaml:"number"`
}

type Normal struct {
	Mean      float64 `toml:"mean" yaml:"mean"`
	Deviation float64 `toml:"deviation" yaml:"deviation"`
	Batch     `yaml:",inline"`
}

// Uniform keys are drawn from [Lower, Upper).
type Uniform struct {
	Lower int64 `toml:"lower" yaml:"lower"`
	Upper int64 `toml:"upper" yaml:"upper"`
	Batch `yaml:",inline"`
}

type Triangle struct {
	Left  float64 `toml:"left" yaml:"left"`
	Right float64 `toml:"right" yaml:"right"`
	Mode  float64 `toml:"mode" yaml:"mode"`
	Batch `yaml:",inline"`
}

// Load reads the configuration at path.
// Files ending in ".toml" are decoded as TOML,
// anything else as YAML (which includes JSON).
// Unknown keys are rejected and defaults are applied
// before the result is validated.
func Load(path string) (Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	defer file.Close()
	var c Config
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		err = decodeTOML(file, &c)
	} else {
		err = decodeYAML(file, &c)
	}
	if err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	c.setDefaults()
	if err := c.validate(); err != nil {
		return Config{}, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func decodeTOML(r io.Reader, c *Config) error {
	metadata, err := toml.NewDecoder(r).Decode(c)
	if err != nil {
		return err
	}
	if undecoded := metadata.Undecoded(); len(undecoded) != 0 {
		return fmt.Errorf("unknown keys: %v", undecoded)
	}
	return nil
}

func decodeYAML(r io.Reader, c *Config) error {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(c); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("config is empty")
		}
		return err
	}
	return nil
}

func (c *Config) setDefaults() {
	if c.Policy == "" {
		c.Policy = DefaultPolicy
	}
	if c.TestFormat == "" {
		c.TestFormat = DefaultTestFormat
	}
	if c.AnswerFormat == "" {
		c.AnswerFormat = DefaultAnswerFormat
	}
}

// Cases returns the total number of sequences to generate.
func (c *Config) Cases() int {
	var cases int
	if c.Normal != nil {
		cases += c.Normal.Number
	}
	if c.Uniform != nil {
		cases += c.Uniform.Number
	}
	if c.Triangle != nil {
		cases += c.Triangle.Number
	}
	return cases
}

// TestName returns the test file name for a case.
func (c *Config) TestName(index int) string {
	return formatName(c.TestFormat, index) + c.Compression.Extension()
}

// AnswerName returns the answer file name for a case.
func (c *Config) AnswerName(index int) string {
	return formatName(c.AnswerFormat, index)
}

func formatName(format string, index int) string {
	return strings.Replace(format, Placeholder, fmt.Sprint(index), 1)
}

func (c *Config) validate() error {
	if c.OutputPath == "" {
		return errors.New("output_path is empty")
	}
	if _, err := cachehits.Lookup(c.Policy); err != nil {
		return err
	}
	if !c.Compression.Valid() {
		return fmt.Errorf("not valid compression %q", c.Compression)
	}
	for _, format := range []string{c.TestFormat, c.AnswerFormat} {
		if !strings.Contains(format, Placeholder) {
			return fmt.Errorf("file format %q has no %s placeholder", format, Placeholder)
		}
		if strings.ContainsRune(format, filepath.Separator) {
			return fmt.Errorf("file format %q must be a file name", format)
		}
	}
	if c.TestFormat == c.AnswerFormat {
		return errors.New("test and answer formats must differ")
	}
	if err := c.Size.validate(); err != nil {
		return err
	}
	if err := c.Normal.validate(); err != nil {
		return fmt.Errorf("normal: %w", err)
	}
	if err := c.Uniform.validate(); err != nil {
		return fmt.Errorf("uniform: %w", err)
	}
	if err := c.Triangle.validate(); err != nil {
		return fmt.Errorf("triangle: %w", err)
	}
	if c.Cases() == 0 {
		return errors.New("no sequences requested")
	}
	return nil
}

func (s Size) validate() error {
	if s.Lower < cachehits.MinimumCapacity {
		return fmt.Errorf("size: lower must be >=%d", cachehits.MinimumCapacity)
	}
	if s.Upper <= s.Lower {
		return errors.New("size: upper must be greater than lower")
	}
	return nil
}

func (b Batch) validate() error {
	if b.Length < 0 {
		return errors.New("length is negative")
	}
	if b.Number < 0 {
		return errors.New("number is negative")
	}
	return nil
}

func (n *Normal) validate() error {
	if n == nil {
		return nil
	}
	if !finite(n.Mean, n.Deviation) {
		return errors.New("parameters must be finite")
	}
	if n.Deviation < 0 {
		return errors.New("deviation is negative")
	}
	return n.Batch.validate()
}

func (u *Uniform) validate() error {
	if u == nil {
		return nil
	}
	if u.Upper <= u.Lower || u.Upper-u.Lower < 0 {
		return errors.New("upper must be greater than lower, within int64 range")
	}
	return u.Batch.validate()
}

func (t *Triangle) validate() error {
	if t == nil {
		return nil
	}
	if !finite(t.Left, t.Mode, t.Right) {
		return errors.New("parameters must be finite")
	}
	if t.Left >= t.Right {
		return errors.New("left must be less than right")
	}
	if t.Mode < t.Left || t.Mode > t.Right {
		return errors.New("mode must be within [left, right]")
	}
	return t.Batch.validate()
}

func finite(values ...float64) bool {
	for _, value := range values {
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return false
		}
	}
	return true
}
