package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Mr-Dark-debug/tracerange/internal/database"
	"github.com/Mr-Dark-debug/tracerange/internal/rangeinput"
	"github.com/Mr-Dark-debug/tracerange/pkg/timerange"
	"github.com/Mr-Dark-debug/tracerange/pkg/timeutil"
)

func rangeCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "range",
		Short: "Save, list and delete bookmarked ranges",
	}
	cmd.AddCommand(rangeSaveCmd(flags))
	cmd.AddCommand(rangeListCmd(flags))
	cmd.AddCommand(rangeDeleteCmd(flags))
	return cmd
}

func rangeSaveCmd(flags *globalFlags) *cobra.Command {
	var label string

	cmd := &cobra.Command{
		Use:   "save <experiment-id> <start> <end>",
		Short: "Bookmark an absolute range of an experiment",
		Long: `Bookmark an absolute range of an experiment.

Both bounds are absolute nanoseconds and must lie inside the experiment,
upper bound included. The bookmark is stored relative to the experiment
offset, lesser bound first.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("parse start %q: %w", args[1], err)
			}
			end, err := strconv.ParseInt(args[2], 10, 64)
			if err != nil {
				return fmt.Errorf("parse end %q: %w", args[2], err)
			}

			e, err := setup(flags)
			if err != nil {
				return err
			}
			defer e.Close()

			exp, err := e.store.GetExperiment(args[0])
			if err != nil {
				return fmt.Errorf("experiment %s: %w", args[0], err)
			}

			rel, err := rangeinput.ResolveUserInput(rangeinput.Input{
				Offset:        exp.Offset(),
				AbsoluteRange: exp.AbsoluteRange(),
				Start:         &start,
				End:           &end,
			})
			if err != nil {
				return describeResolveError(err, exp)
			}

			ordered := rel.Ordered()
			r := timerange.NewWithOffset(ordered.Start, ordered.End, exp.Offset())
			if label == "" {
				label = r.String()
			}
			id, err := e.store.SaveRange(exp.ExperimentID, label, r)
			if err != nil {
				return fmt.Errorf("save range: %w", err)
			}
			e.logger.Info("range saved", "experiment", exp.ExperimentID, "range_id", id, "range", r.String())

			return writeRanges(cmd.OutOrStdout(), flags.output, []*database.SavedRange{{
				RangeID:      id,
				ExperimentID: exp.ExperimentID,
				Label:        label,
				Range:        r,
			}})
		},
	}

	cmd.Flags().StringVar(&label, "label", "", "Bookmark label (default: the range itself)")
	return cmd
}

func rangeListCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list <experiment-id>",
		Short: "List the bookmarks of an experiment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(flags)
			if err != nil {
				return err
			}
			defer e.Close()

			saved, err := e.store.ListRanges(args[0])
			if err != nil {
				return fmt.Errorf("list ranges: %w", err)
			}
			return writeRanges(cmd.OutOrStdout(), flags.output, saved)
		},
	}
}

func rangeDeleteCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <range-id>",
		Short: "Delete a bookmark",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("parse range id %q: %w", args[0], err)
			}

			e, err := setup(flags)
			if err != nil {
				return err
			}
			defer e.Close()

			if err := e.store.DeleteRange(id); err != nil {
				return fmt.Errorf("delete range %d: %w", id, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted range %d\n", id)
			return nil
		},
	}
}

// describeResolveError adds the valid interval to a bounds error.
func describeResolveError(err error, exp *database.Experiment) error {
	var bounds *rangeinput.BoundsError
	if !errors.As(err, &bounds) {
		return err
	}
	var side string
	switch {
	case bounds.StartInvalid && bounds.EndInvalid:
		side = "start and end"
	case bounds.StartInvalid:
		side = "start"
	default:
		side = "end"
	}
	return fmt.Errorf("%s outside [%d, %d]: %w",
		side, exp.Offset(), exp.Offset()+exp.AbsoluteRange(), err)
}

func writeRanges(w io.Writer, format string, saved []*database.SavedRange) error {
	if format == "json" {
		return writeJSON(w, saved)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tLABEL\tSTART\tEND\tSPAN")
	for _, sr := range saved {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%s\n",
			sr.RangeID, sr.Label, sr.Range.Start(), sr.Range.End(), timeutil.FormatSpan(sr.Range.Duration()))
	}
	return tw.Flush()
}
