// Package cli implements the offline command-line interface: single-file
// document processing and claim analysis without any backing services.
package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
)

// NewRootCommand assembles the command tree.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "claimlens",
		Short:         "Document intelligence and eligibility decision support for land-rights claims",
		Version:       fmt.Sprintf("%s (%s)", Version, GitCommit),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newProcessCmd())
	cmd.AddCommand(newAnalyzeCmd())

	return cmd
}

// printJSON writes v as indented JSON to the command's stdout.
func printJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
