// Command cachehits computes and verifies hit counts
// of cache replacement policies.
package main

import "github.com/djdv/go-cachehits/internal/cmd"

func main() {
	cmd.Execute()
}
