package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/paularynty/climaxlog/internal/db"
	"github.com/paularynty/climaxlog/internal/dependency"
	"github.com/paularynty/climaxlog/internal/service"
)

const reviewFilePerm = 0o640

// depOpener returns the dependency and a function releasing it.
type depOpener func() (*dependency.Dependency, func(), error)

var ErrNotConfirmed = errors.New("refusing to reset without --yes")

func newResetCommand(out io.Writer, open depOpener) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset-db",
		Short: "Delete every row of every table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return ErrNotConfirmed
			}

			dep, release, err := open()
			if err != nil {
				return err
			}
			defer release()

			if err := db.ResetDB(cmd.Context(), dep.DB, dep.Logger); err != nil {
				return err
			}

			fmt.Fprintln(out, "database reset")
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the reset")

	return cmd
}

func newSummaryCommand(out io.Writer, open depOpener) *cobra.Command {
	var tz string

	cmd := &cobra.Command{
		Use:   "summary <username>",
		Short: "Print a user's totals and streaks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dep, release, err := open()
			if err != nil {
				return err
			}
			defer release()

			return printSummary(cmd.Context(), out, dep, args[0], tz)
		},
	}

	cmd.Flags().StringVar(&tz, "tz", "", "IANA timezone, defaults to the user's preference")

	return cmd
}

func printSummary(ctx context.Context, out io.Writer, dep *dependency.Dependency, username, tz string) error {
	user, err := service.NewUserService(dep).GetUserByUsername(ctx, username)
	if err != nil {
		return err
	}

	summary, err := service.NewStatsService(dep).Summary(ctx, user.ID, tz)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "user:           %s\n", user.Username)
	fmt.Fprintf(out, "joined:         %s\n", humanize.Time(time.Unix(user.CreatedAt, 0)))
	fmt.Fprintf(out, "total:          %s\n", humanize.Comma(int64(summary.Total)))
	fmt.Fprintf(out, "longest streak: %d days\n", summary.LongestStreak)
	fmt.Fprintf(out, "current streak: %d days\n", summary.CurrentStreak)
	fmt.Fprintf(out, "longest gap:    %d days\n", summary.LongestGap)
	if summary.LastEvent != nil {
		fmt.Fprintf(out, "last entry:     %s\n", humanize.Time(*summary.LastEvent))
	}

	return nil
}

func newReviewCommand(out io.Writer, open depOpener) *cobra.Command {
	var (
		year    int
		tz      string
		outPath string
	)

	cmd := &cobra.Command{
		Use:   "review <username>",
		Short: "Export a user's year in review as HTML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if outPath == "" {
				outPath = fmt.Sprintf("review-%s.html", args[0])
			}

			dep, release, err := open()
			if err != nil {
				return err
			}
			defer release()

			return writeReview(cmd.Context(), out, dep, args[0], tz, year, outPath)
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "calendar year, defaults to the current one")
	cmd.Flags().StringVar(&tz, "tz", "", "IANA timezone, defaults to the user's preference")
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "output HTML file")

	return cmd
}

func writeReview(ctx context.Context, out io.Writer, dep *dependency.Dependency, username, tz string, year int, outPath string) error {
	user, err := service.NewUserService(dep).GetUserByUsername(ctx, username)
	if err != nil {
		return err
	}

	var page bytes.Buffer
	if err := service.NewStatsService(dep).ReviewChart(ctx, user.ID, tz, year, &page); err != nil {
		return err
	}

	if err := os.WriteFile(outPath, page.Bytes(), reviewFilePerm); err != nil {
		return fmt.Errorf("write %s: %w", outPath, err)
	}

	fmt.Fprintf(out, "wrote %s (%s)\n", outPath, humanize.Bytes(uint64(page.Len())))
	return nil
}
