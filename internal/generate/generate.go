// Package generate samples test sequences, answers them
// with a [cachehits.Simulator], and verifies generated answers.
//
// Cases are numbered from 0: every normal case first,
// then uniform, then triangular.
// Each case draws its keys, then its capacity,
// from its own RNG derived from the configured seed.
package generate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/djdv/go-cachehits"
	"github.com/djdv/go-cachehits/internal/config"
	"github.com/djdv/go-cachehits/internal/trace"
)

const (
	DistributionNormal   = "normal"
	DistributionUniform  = "uniform"
	DistributionTriangle = "triangle"
)

// Case is a single generated test.
type Case struct {
	Distribution string
	trace.Test
	Index int
}

type batch struct {
	sampler      KeySampler
	distribution string
	config.Batch
}

// Cases draws every test described by cfg, in case order.
// The zero seed is not resolved here; callers pass the seed to use.
func Cases(cfg config.Config, seed int64) ([]Case, error) {
	cases := make([]Case, 0, cfg.Cases())
	for _, b := range batches(cfg) {
		for ordinal := range b.Number {
			generated, err := newCase(b, cfg.Size, seed, len(cases), ordinal)
			if err != nil {
				return nil, err
			}
			cases = append(cases, generated)
		}
	}
	return cases, nil
}

// Generate writes every test of cfg, its answer,
// and a manifest describing them, to cfg.OutputPath.
func Generate(ctx context.Context, cfg config.Config) (Manifest, error) {
	simulator, err := cachehits.Lookup(cfg.Policy)
	if err != nil {
		return Manifest{}, err
	}
	if err := os.MkdirAll(cfg.OutputPath, 0o755); err != nil {
		return Manifest{}, fmt.Errorf("create output directory: %w", err)
	}
	var (
		seed    = resolveSeed(cfg.Seed)
		entries = make([]Entry, cfg.Cases())
		index   int
	)
	logrus.WithFields(logrus.Fields{
		"cases":  len(entries),
		"policy": cfg.Policy,
		"seed":   seed,
		"output": cfg.OutputPath,
	}).Info("generating tests")
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.NumCPU())
	for _, b := range batches(cfg) {
		for ordinal := range b.Number {
			caseIndex := index
			eg.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				generated, err := newCase(b, cfg.Size, seed, caseIndex, ordinal)
				if err != nil {
					return fmt.Errorf("case %d: %w", caseIndex, err)
				}
				entry, err := writeCase(&cfg, simulator, generated)
				if err != nil {
					return fmt.Errorf("case %d: %w", caseIndex, err)
				}
				entries[caseIndex] = entry
				return nil
			})
			index++
		}
	}
	if err := eg.Wait(); err != nil {
		return Manifest{}, fmt.Errorf("generate: %w", err)
	}
	manifest := Manifest{
		Policy: cfg.Policy,
		Seed:   seed,
		Cases:  entries,
	}
	if err := WriteManifest(filepath.Join(cfg.OutputPath, ManifestName), manifest); err != nil {
		return Manifest{}, err
	}
	logrus.Infof("generated %d tests in %s", len(entries), cfg.OutputPath)
	return manifest, nil
}

func batches(cfg config.Config) []batch {
	batches := make([]batch, 0, 3)
	if n := cfg.Normal; n != nil {
		batches = append(batches, batch{
			sampler:      NormalSampler{Mean: n.Mean, Deviation: n.Deviation},
			distribution: DistributionNormal,
			Batch:        n.Batch,
		})
	}
	if u := cfg.Uniform; u != nil {
		batches = append(batches, batch{
			sampler:      UniformSampler{Lower: u.Lower, Upper: u.Upper},
			distribution: DistributionUniform,
			Batch:        u.Batch,
		})
	}
	if t := cfg.Triangle; t != nil {
		batches = append(batches, batch{
			sampler:      TriangularSampler{Left: t.Left, Mode: t.Mode, Right: t.Right},
			distribution: DistributionTriangle,
			Batch:        t.Batch,
		})
	}
	return batches
}

func newCase(b batch, size config.Size, seed int64, index, ordinal int) (Case, error) {
	rng := partition(seed, b.distribution, ordinal)
	accesses, err := Sequence(b.sampler, rng, b.Length)
	if err != nil {
		return Case{}, err
	}
	return Case{
		Distribution: b.distribution,
		Index:        index,
		Test: trace.Test{
			Accesses: accesses,
			Capacity: size.Lower + rng.Intn(size.Upper-size.Lower),
		},
	}, nil
}

func writeCase(cfg *config.Config, simulator cachehits.Simulator, generated Case) (Entry, error) {
	var (
		testName   = cfg.TestName(generated.Index)
		answerName = cfg.AnswerName(generated.Index)
		testPath   = filepath.Join(cfg.OutputPath, testName)
	)
	if err := writeTest(testPath, generated.Test); err != nil {
		return Entry{}, err
	}
	hits, err := simulator.Simulate(generated.Accesses, generated.Capacity)
	if err != nil {
		return Entry{}, fmt.Errorf("simulate: %w", err)
	}
	if err := writeAnswer(filepath.Join(cfg.OutputPath, answerName), hits); err != nil {
		return Entry{}, err
	}
	checksum, err := trace.Checksum(testPath)
	if err != nil {
		return Entry{}, err
	}
	logrus.WithFields(logrus.Fields{
		"case":         generated.Index,
		"distribution": generated.Distribution,
		"capacity":     generated.Capacity,
		"hits":         hits,
	}).Debug("case written")
	return Entry{
		Index:        generated.Index,
		Distribution: generated.Distribution,
		Test:         testName,
		Answer:       answerName,
		Capacity:     generated.Capacity,
		Length:       len(generated.Accesses),
		Hits:         hits,
		Checksum:     checksum,
	}, nil
}

func writeTest(path string, test trace.Test) (err error) {
	file, err := trace.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cErr := file.Close(); cErr != nil && err == nil {
			err = fmt.Errorf("close test: %w", cErr)
		}
	}()
	return trace.Encode(file, test)
}

func writeAnswer(path string, hits int) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create answer: %w", err)
	}
	defer func() {
		if cErr := file.Close(); cErr != nil && err == nil {
			err = fmt.Errorf("close answer: %w", cErr)
		}
	}()
	return trace.EncodeAnswer(file, hits)
}
