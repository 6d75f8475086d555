package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Mr-Dark-debug/tracerange/internal/rangeinput"
	"github.com/Mr-Dark-debug/tracerange/internal/timegraph"
	"github.com/Mr-Dark-debug/tracerange/pkg/timerange"
)

// resolveResult is the outcome of a selection edit.
type resolveResult struct {
	Relative   timegraph.Range      `json:"relative"`
	Absolute   timegraph.Range      `json:"absolute"`
	Serialized timerange.Serialized `json:"serialized"`
}

func resolveCmd(flags *globalFlags) *cobra.Command {
	var (
		startArg, endArg, selectionArg string
	)

	cmd := &cobra.Command{
		Use:   "resolve <experiment-id>",
		Short: "Resolve a selection edit against an experiment",
		Long: `Resolve a selection edit the way the range form does.

--start and --end are absolute nanoseconds; either may be omitted. A
missing bound is taken from --selection (offset-relative "a:b"), or
equals the given bound when there is no selection. Both bounds must lie
inside the experiment, upper bound included.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := rangeinput.Input{}
			var err error
			if in.Start, err = parseOptional(startArg); err != nil {
				return fmt.Errorf("parse --start: %w", err)
			}
			if in.End, err = parseOptional(endArg); err != nil {
				return fmt.Errorf("parse --end: %w", err)
			}
			if selectionArg != "" {
				sel, err := parseSelection(selectionArg)
				if err != nil {
					return fmt.Errorf("parse --selection: %w", err)
				}
				in.Selection = &sel
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
			in.Offset = exp.Offset()
			in.AbsoluteRange = exp.AbsoluteRange()

			rel, err := rangeinput.ResolveUserInput(in)
			if err != nil {
				return describeResolveError(err, exp)
			}
			return writeResolved(cmd.OutOrStdout(), flags.output, rel, exp.Offset())
		},
	}

	cmd.Flags().StringVar(&startArg, "start", "", "New absolute start")
	cmd.Flags().StringVar(&endArg, "end", "", "New absolute end")
	cmd.Flags().StringVar(&selectionArg, "selection", "", "Current offset-relative selection as start:end")
	return cmd
}

func writeResolved(w io.Writer, format string, rel timegraph.Range, offset int64) error {
	r := timerange.NewWithOffset(rel.Start, rel.End, offset)
	res := resolveResult{
		Relative:   rel,
		Absolute:   timegraph.Range{Start: r.Start(), End: r.End()},
		Serialized: r.Serialize(),
	}
	if format == "json" {
		return writeJSON(w, res)
	}
	start, end := rangeinput.DisplayPair(&rel, offset)
	_, err := fmt.Fprintf(w, "relative  %d .. %d\nabsolute  %s .. %s\n", rel.Start, rel.End, start, end)
	return err
}

func parseOptional(s string) (*int64, error) {
	if s == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func parseSelection(s string) (timegraph.Range, error) {
	a, b, ok := strings.Cut(s, ":")
	if !ok {
		return timegraph.Range{}, fmt.Errorf("%q is not start:end", s)
	}
	start, err := strconv.ParseInt(a, 10, 64)
	if err != nil {
		return timegraph.Range{}, err
	}
	end, err := strconv.ParseInt(b, 10, 64)
	if err != nil {
		return timegraph.Range{}, err
	}
	return timegraph.Range{Start: start, End: end}, nil
}
