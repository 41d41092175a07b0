package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vango-dev/gatefx/pkg/scenario"
)

func replayCmd(flags *globalFlags) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "replay <file|s3://bucket/key>",
		Short: "Replay a scenario and report each cycle",
		Long: `Replay a scenario through UseCustomCompareEffect.

Each cycle is one render with the cycle's dependency list. The report
shows whether the effect ran, whether the previous cleanup ran, and which
cycle's dependencies the trigger holds as its baseline afterwards.

Comparators: ` + fmt.Sprint(scenario.Comparators()) + `

Examples:
  gatefx replay scenarios/tag-filter.yaml
  gatefx replay s3://my-bucket/scenarios/fault.json --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup(flags)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runReplay(ctx, env, args[0], asJSON, os.Stdout)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")

	return cmd
}

func runReplay(ctx context.Context, env *runtimeEnv, ref string, asJSON bool, out io.Writer) error {
	client, err := env.objectGetter(ctx, ref)
	if err != nil {
		return err
	}

	sc, err := scenario.Load(ctx, ref, client)
	if err != nil {
		return err
	}

	report, runErr := scenario.Run(ctx, sc,
		scenario.WithObserver(env.observer),
		scenario.WithLogger(env.logger),
	)
	if report == nil {
		return runErr
	}

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}
		return runErr
	}

	writeReport(out, report)
	return runErr
}

// writeReport prints the report as an aligned table.
func writeReport(out io.Writer, report *scenario.Report) {
	fmt.Fprintf(out, "\n  %s (comparator: %s)\n\n", report.Scenario, report.Comparator)

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  CYCLE\tRAN\tCLEANUP\tBASELINE\tDEPS")
	for _, c := range report.Cycles {
		ran := mark(c.Ran)
		if c.Fault != "" {
			ran = "fault"
		}
		fmt.Fprintf(tw, "  %d\t%s\t%s\t%s\t%v\n", c.Cycle, ran, mark(c.CleanupRan), baseline(c.Baseline), c.Deps)
	}
	tw.Flush()

	fmt.Fprintf(out, "\n  %d runs, %d suppressed, %d cleanups\n\n", report.Runs, report.Suppressed, report.Cleanups)
}

func mark(b bool) string {
	if b {
		return "yes"
	}
	return "-"
}

func baseline(i int) string {
	if i < 0 {
		return "-"
	}
	return fmt.Sprint(i)
}
