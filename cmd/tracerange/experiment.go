package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Mr-Dark-debug/tracerange/internal/database"
	"github.com/Mr-Dark-debug/tracerange/pkg/timeutil"
)

func experimentCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "experiment",
		Aliases: []string{"exp"},
		Short:   "Register, list and delete experiments",
	}
	cmd.AddCommand(experimentAddCmd(flags))
	cmd.AddCommand(experimentListCmd(flags))
	cmd.AddCommand(experimentDeleteCmd(flags))
	return cmd
}

func experimentAddCmd(flags *globalFlags) *cobra.Command {
	var (
		name       string
		start, end int64
	)

	cmd := &cobra.Command{
		Use:   "add <experiment-id>",
		Short: "Register or update an experiment",
		Long: `Register an experiment by its absolute bounds in nanoseconds.

The start bound becomes the experiment offset: ranges inside the
experiment are kept relative to it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("start") || !cmd.Flags().Changed("end") {
				return fmt.Errorf("--start and --end are required")
			}
			if end < start {
				return fmt.Errorf("end %d is before start %d", end, start)
			}
			if name == "" {
				name = args[0]
			}

			e, err := setup(flags)
			if err != nil {
				return err
			}
			defer e.Close()

			exp := &database.Experiment{ExperimentID: args[0], Name: name, StartTime: start, EndTime: end}
			if err := e.store.InsertExperiment(exp); err != nil {
				return fmt.Errorf("add experiment: %w", err)
			}
			e.logger.Info("experiment registered", "experiment", exp.ExperimentID, "offset", exp.Offset(), "absolute_range", exp.AbsoluteRange())
			return writeExperiments(cmd.OutOrStdout(), flags.output, []*database.Experiment{exp})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name (default: the experiment id)")
	cmd.Flags().Int64Var(&start, "start", 0, "Absolute start in nanoseconds")
	cmd.Flags().Int64Var(&end, "end", 0, "Absolute end in nanoseconds")
	return cmd
}

func experimentListCmd(flags *globalFlags) *cobra.Command {
	var (
		name   string
		limit  int
		offset int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List experiments, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(flags)
			if err != nil {
				return err
			}
			defer e.Close()

			filter := database.ExperimentFilter{Limit: limit, Offset: offset}
			if name != "" {
				filter.Name = &name
			}
			exps, err := e.store.QueryExperiments(filter)
			if err != nil {
				return fmt.Errorf("list experiments: %w", err)
			}
			return writeExperiments(cmd.OutOrStdout(), flags.output, exps)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Filter by name")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum results")
	cmd.Flags().IntVar(&offset, "skip", 0, "Skip the first N results")
	return cmd
}

func experimentDeleteCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <experiment-id>",
		Short: "Delete an experiment and its bookmarks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(flags)
			if err != nil {
				return err
			}
			defer e.Close()

			if err := e.store.DeleteExperiment(args[0]); err != nil {
				return fmt.Errorf("delete experiment %s: %w", args[0], err)
			}
			e.logger.Info("experiment deleted", "experiment", args[0])
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}
}

func writeExperiments(w io.Writer, format string, exps []*database.Experiment) error {
	if format == "json" {
		return writeJSON(w, exps)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSTART\tEND\tSPAN")
	for _, exp := range exps {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n",
			exp.ExperimentID, exp.Name, exp.StartTime, exp.EndTime, timeutil.FormatSpan(exp.AbsoluteRange()))
	}
	return tw.Flush()
}

func writeJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
