package generate

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/djdv/go-cachehits"
)

// KeySampler draws a single key.
type KeySampler interface {
	Sample(rng *rand.Rand) (cachehits.Key, error)
}

// NormalSampler draws normally distributed keys,
// truncated toward zero.
type NormalSampler struct {
	Mean, Deviation float64
}

// UniformSampler draws keys uniformly from [Lower, Upper).
type UniformSampler struct {
	Lower, Upper int64
}

// TriangularSampler draws keys from the triangular distribution
// over [Left, Right] peaking at Mode, truncated toward zero.
type TriangularSampler struct {
	Left, Mode, Right float64
}

func (s NormalSampler) Sample(rng *rand.Rand) (cachehits.Key, error) {
	return truncate(rng.NormFloat64()*s.Deviation + s.Mean)
}

func (s UniformSampler) Sample(rng *rand.Rand) (cachehits.Key, error) {
	span := s.Upper - s.Lower
	if s.Upper <= s.Lower || span <= 0 {
		return 0, fmt.Errorf(
			"%w: empty uniform range [%d, %d)",
			cachehits.ErrMalformedSequence, s.Lower, s.Upper)
	}
	return s.Lower + rng.Int63n(span), nil
}

// Sample inverts the triangular CDF.
func (s TriangularSampler) Sample(rng *rand.Rand) (cachehits.Key, error) {
	width := s.Right - s.Left
	if !(width > 0) || s.Mode < s.Left || s.Mode > s.Right {
		return 0, fmt.Errorf(
			"%w: triangular parameters left=%g mode=%g right=%g",
			cachehits.ErrMalformedSequence, s.Left, s.Mode, s.Right)
	}
	u := rng.Float64()
	if u < (s.Mode-s.Left)/width {
		return truncate(s.Left + math.Sqrt(u*width*(s.Mode-s.Left)))
	}
	return truncate(s.Right - math.Sqrt((1-u)*width*(s.Right-s.Mode)))
}

// Sequence draws length keys from sampler.
func Sequence(sampler KeySampler, rng *rand.Rand, length int) ([]cachehits.Key, error) {
	if length < 0 {
		return nil, fmt.Errorf("%w: negative length %d",
			cachehits.ErrMalformedSequence, length)
	}
	keys := make([]cachehits.Key, length)
	for i := range keys {
		key, err := sampler.Sample(rng)
		if err != nil {
			return nil, err
		}
		keys[i] = key
	}
	return keys, nil
}

func truncate(value float64) (cachehits.Key, error) {
	const bound = 0x1p63
	if math.IsNaN(value) || value >= bound || value < -bound {
		return 0, fmt.Errorf("%w: sample %g is not representable as a key",
			cachehits.ErrMalformedSequence, value)
	}
	return cachehits.Key(value), nil
}
