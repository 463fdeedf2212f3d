package generate

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/djdv/go-cachehits"
)

// ManifestName is the file name of the manifest within an output directory.
const ManifestName = "manifest.yaml"

// Manifest describes a generated output directory.
type Manifest struct {
	Policy cachehits.Policy `yaml:"policy"`
	Cases  []Entry          `yaml:"cases"`
	Seed   int64            `yaml:"seed"`
}

// Entry describes one generated case.
// File names are relative to the manifest.
type Entry struct {
	Distribution string `yaml:"distribution"`
	Test         string `yaml:"test"`
	Answer       string `yaml:"answer"`
	Checksum     string `yaml:"checksum"`
	Index        int    `yaml:"index"`
	Capacity     int    `yaml:"capacity"`
	Length       int    `yaml:"length"`
	Hits         int    `yaml:"hits"`
}

// WriteManifest stores manifest at path.
func WriteManifest(path string, manifest Manifest) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create manifest: %w", err)
	}
	defer func() {
		if cErr := file.Close(); cErr != nil && err == nil {
			err = fmt.Errorf("close manifest: %w", cErr)
		}
	}()
	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(2)
	if err := encoder.Encode(manifest); err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	return encoder.Close()
}

// ReadManifest loads the manifest at path.
func ReadManifest(path string) (Manifest, error) {
	file, err := os.Open(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("open manifest: %w", err)
	}
	defer file.Close()
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	var manifest Manifest
	if err := decoder.Decode(&manifest); err != nil {
		return Manifest{}, fmt.Errorf("decode manifest: %w", err)
	}
	if len(manifest.Cases) == 0 {
		return Manifest{}, errors.New("manifest lists no cases")
	}
	return manifest, nil
}
