// Command admin runs maintenance and export tasks against the configured database.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/paularynty/climaxlog/internal/dependency"
	"github.com/paularynty/climaxlog/internal/util"
)

var verbose bool

func main() {
	_ = godotenv.Load()

	rootCmd := newRootCommand(os.Stdout, func() (*dependency.Dependency, func(), error) {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		logger := util.NewLogger(os.Stderr, level, false)

		dep, err := dependency.InitDependency(logger)
		if err != nil {
			return nil, nil, err
		}
		return dep, func() { dependency.CloseDependency(dep) }, nil
	})

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand(out io.Writer, open depOpener) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "admin",
		Short: "Climaxlog maintenance tool",
		Long: `Maintenance and export tasks for a climaxlog database.

Commands:
  reset-db  Delete every row of every table
  summary   Print a user's totals and streaks
  review    Export a user's year in review as HTML`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(newResetCommand(out, open))
	rootCmd.AddCommand(newSummaryCommand(out, open))
	rootCmd.AddCommand(newReviewCommand(out, open))

	return rootCmd
}
