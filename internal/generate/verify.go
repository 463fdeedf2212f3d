package generate

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/djdv/go-cachehits"
	"github.com/djdv/go-cachehits/internal/trace"
)

// Mismatch is a case whose files disagree with its manifest
// entry, or whose answer disagrees with a fresh simulation.
type Mismatch struct {
	Test   string
	Reason string
	Index  int
}

func (m Mismatch) String() string {
	return fmt.Sprintf("case %d (%s): %s", m.Index, m.Test, m.Reason)
}

// Verify re-derives every answer listed in the manifest of dir.
// Problems with individual cases are reported as mismatches;
// the error is reserved for failures to verify at all.
func Verify(ctx context.Context, dir string) ([]Mismatch, error) {
	manifest, err := ReadManifest(filepath.Join(dir, ManifestName))
	if err != nil {
		return nil, err
	}
	simulator, err := cachehits.Lookup(manifest.Policy)
	if err != nil {
		return nil, fmt.Errorf("manifest: %w", err)
	}
	reasons := make([]string, len(manifest.Cases))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.NumCPU())
	for i, entry := range manifest.Cases {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			reasons[i] = verifyEntry(dir, simulator, entry)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("verify: %w", err)
	}
	var mismatches []Mismatch
	for i, reason := range reasons {
		if reason == "" {
			continue
		}
		entry := manifest.Cases[i]
		mismatch := Mismatch{
			Index:  entry.Index,
			Test:   entry.Test,
			Reason: reason,
		}
		logrus.Warn(mismatch)
		mismatches = append(mismatches, mismatch)
	}
	logrus.WithFields(logrus.Fields{
		"cases":      len(manifest.Cases),
		"mismatches": len(mismatches),
	}).Info("verification complete")
	return mismatches, nil
}

// verifyEntry returns a non-empty reason if entry does not hold.
func verifyEntry(dir string, simulator cachehits.Simulator, entry Entry) string {
	for _, name := range []string{entry.Test, entry.Answer} {
		if !localName(name) {
			return fmt.Sprintf("file name %q is not within the directory", name)
		}
	}
	testPath := filepath.Join(dir, entry.Test)
	checksum, err := trace.Checksum(testPath)
	if err != nil {
		return err.Error()
	}
	if checksum != entry.Checksum {
		return fmt.Sprintf("checksum %s, manifest has %s", checksum, entry.Checksum)
	}
	test, err := readTest(testPath)
	if err != nil {
		return err.Error()
	}
	if test.Capacity != entry.Capacity || len(test.Accesses) != entry.Length {
		return fmt.Sprintf(
			"capacity %d and length %d, manifest has %d and %d",
			test.Capacity, len(test.Accesses), entry.Capacity, entry.Length)
	}
	answer, err := readAnswer(filepath.Join(dir, entry.Answer))
	if err != nil {
		return err.Error()
	}
	if answer != entry.Hits {
		return fmt.Sprintf("answer file has %d hits, manifest has %d", answer, entry.Hits)
	}
	hits, err := simulator.Simulate(test.Accesses, test.Capacity)
	if err != nil {
		return err.Error()
	}
	if hits != entry.Hits {
		return fmt.Sprintf("simulated %d hits, answer has %d", hits, entry.Hits)
	}
	return ""
}

// localName reports whether name refers to a file directly inside
// the manifest's directory.
func localName(name string) bool {
	return name != "" && name != "." && name != ".." &&
		filepath.Base(name) == name
}

func readTest(path string) (trace.Test, error) {
	file, err := trace.Open(path)
	if err != nil {
		return trace.Test{}, err
	}
	defer file.Close()
	return trace.Decode(file)
}

func readAnswer(path string) (int, error) {
	file, err := trace.Open(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()
	return trace.DecodeAnswer(file)
}
