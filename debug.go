//go:build cachehits_debug

package cachehits

import "fmt"

const debugging = true

// assertf panics with the formatted message if an invariant does not hold.
func assertf(invariant bool, format string, args ...any) {
	if !invariant {
		panic(fmt.Sprintf("cachehits: invariant violated: "+format, args...))
	}
}
