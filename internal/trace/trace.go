// Package trace reads and writes test and answer files.
//
// A test file holds whitespace separated decimal integers:
// the capacity, the sequence length, then exactly that many keys.
// An answer file holds a single decimal hit count.
package trace

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/djdv/go-cachehits"
)

// Test is a single simulation input.
type Test struct {
	Accesses []cachehits.Key
	Capacity int
}

// Decode reads a test from r.
// The capacity is not validated here; simulators reject it.
func Decode(r io.Reader) (Test, error) {
	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)
	capacity, err := scanInt(scanner, "capacity")
	if err != nil {
		return Test{}, err
	}
	length, err := scanInt(scanner, "length")
	if err != nil {
		return Test{}, err
	}
	if length < 0 {
		return Test{}, malformedError("negative length %d", length)
	}
	accesses := make([]cachehits.Key, 0, min(length, 1<<20))
	for i := range length {
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return Test{}, fmt.Errorf("decode test: %w", err)
			}
			return Test{}, malformedError("expected %d keys but found %d", length, i)
		}
		key, err := strconv.ParseInt(scanner.Text(), 10, 64)
		if err != nil {
			return Test{}, malformedError("key %d: %w", i, err)
		}
		accesses = append(accesses, key)
	}
	if scanner.Scan() {
		return Test{}, malformedError(
			"unexpected token %q after %d keys", scanner.Text(), length)
	}
	if err := scanner.Err(); err != nil {
		return Test{}, fmt.Errorf("decode test: %w", err)
	}
	return Test{Capacity: capacity, Accesses: accesses}, nil
}

// Encode writes test to w.
// Every value is followed by a single space.
func Encode(w io.Writer, test Test) error {
	buffer := bufio.NewWriter(w)
	var scratch []byte
	write := func(value int64) {
		scratch = strconv.AppendInt(scratch[:0], value, 10)
		scratch = append(scratch, ' ')
		buffer.Write(scratch) //nolint:errcheck // reported by Flush.
	}
	write(int64(test.Capacity))
	write(int64(len(test.Accesses)))
	for _, key := range test.Accesses {
		write(key)
	}
	if err := buffer.Flush(); err != nil {
		return fmt.Errorf("encode test: %w", err)
	}
	return nil
}

// EncodeAnswer writes hits to w.
func EncodeAnswer(w io.Writer, hits int) error {
	if _, err := io.WriteString(w, strconv.Itoa(hits)); err != nil {
		return fmt.Errorf("encode answer: %w", err)
	}
	return nil
}

// DecodeAnswer reads a hit count from r.
func DecodeAnswer(r io.Reader) (int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)
	hits, err := scanInt(scanner, "answer")
	if err != nil {
		return 0, err
	}
	if hits < 0 {
		return 0, malformedError("negative answer %d", hits)
	}
	if scanner.Scan() {
		return 0, malformedError("unexpected token %q after answer", scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("decode answer: %w", err)
	}
	return hits, nil
}

func scanInt(scanner *bufio.Scanner, name string) (int, error) {
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return 0, fmt.Errorf("decode %s: %w", name, err)
		}
		return 0, malformedError("missing %s", name)
	}
	value, err := strconv.Atoi(scanner.Text())
	if err != nil {
		return 0, malformedError("%s: %w", name, err)
	}
	return value, nil
}

func malformedError(format string, args ...any) error {
	return fmt.Errorf("%w: "+format,
		append([]any{cachehits.ErrMalformedSequence}, args...)...)
}
