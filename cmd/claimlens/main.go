// CLI entry point for offline document processing and claim analysis.
package main

import (
	"fmt"
	"os"

	"github.com/claimlens/claimlens/internal/interfaces/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "claimlens: %v\n", err)
		os.Exit(1)
	}
}
