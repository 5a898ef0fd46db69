package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/infrarisk-ch/kuba-risk-cli/internal/export"
	"github.com/infrarisk-ch/kuba-risk-cli/internal/model"
	"github.com/infrarisk-ch/kuba-risk-cli/internal/store"
)

var (
	runsKind  string
	runsLimit int
	topCount  int
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect persisted assessment runs",
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List runs, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		runs, err := st.ListRuns(ctx, store.RunFilter{
			Kind:  model.RunKind(runsKind),
			Limit: runsLimit,
		})
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tKIND\tREVISION\tSTATUS\tPROCESSED\tFAILED\tNO COORDS\tSTARTED")
		for _, r := range runs {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
				r.ID, r.Kind, r.Revision, r.Status,
				r.Processed, r.Failed, r.WithoutCoordinates,
				r.StartedAt.Format("2006-01-02 15:04"))
		}
		return w.Flush()
	},
}

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show one run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		run, err := st.GetRun(ctx, args[0])
		if err != nil {
			return err
		}

		fmt.Printf("id:                  %s\n", run.ID)
		fmt.Printf("kind:                %s\n", run.Kind)
		fmt.Printf("revision:            %s\n", run.Revision)
		fmt.Printf("status:              %s\n", run.Status)
		fmt.Printf("processed:           %d\n", run.Processed)
		fmt.Printf("failed:              %d\n", run.Failed)
		fmt.Printf("without coordinates: %d\n", run.WithoutCoordinates)
		fmt.Printf("started:             %s\n", run.StartedAt.Format("2006-01-02 15:04:05"))
		if run.FinishedAt != nil {
			fmt.Printf("finished:            %s\n", run.FinishedAt.Format("2006-01-02 15:04:05"))
		}
		return nil
	},
}

var runsTopCmd = &cobra.Command{
	Use:   "top <run-id>",
	Short: "Show the highest-risk structures of a run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		entries, err := st.TopRisks(ctx, args[0], topCount)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NUMBER\tNAME\tP(COLLAPSE)\tDAMAGE\tRISK")
		for _, e := range entries {
			fmt.Fprintf(w, "%d\t%s\t%.3g\t%s\t%s\n",
				e.Number, e.Name, e.ProbabilityOfCollapse,
				export.CHF(e.DamageCosts), export.CHF(e.Risk))
		}
		return w.Flush()
	},
}

func init() {
	runsListCmd.Flags().StringVar(&runsKind, "kind", "", "filter by kind (bridges|walls)")
	runsListCmd.Flags().IntVar(&runsLimit, "limit", 20, "maximum runs to list")
	runsTopCmd.Flags().IntVar(&topCount, "n", 20, "number of entries")
	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	runsCmd.AddCommand(runsTopCmd)
	rootCmd.AddCommand(runsCmd)
}
