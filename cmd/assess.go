package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/infrarisk-ch/kuba-risk-cli/internal/assess"
	"github.com/infrarisk-ch/kuba-risk-cli/internal/export"
	"github.com/infrarisk-ch/kuba-risk-cli/internal/inventory"
	"github.com/infrarisk-ch/kuba-risk-cli/internal/model"
	"github.com/infrarisk-ch/kuba-risk-cli/internal/store"
	"github.com/infrarisk-ch/kuba-risk-cli/internal/traffic"
	"github.com/infrarisk-ch/kuba-risk-cli/internal/zone"
)

var (
	assessRevision string
	assessCSVPath  string
)

var assessCmd = &cobra.Command{
	Use:   "assess",
	Short: "Score an inventory export and persist the run",
}

var assessBridgesCmd = &cobra.Command{
	Use:   "bridges",
	Short: "Assess all bridges in the inventory",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		fs, err := formulaSet(assessRevision)
		if err != nil {
			return err
		}

		var (
			bridges []model.Bridge
			tr      *traffic.Resolver
			zones   zone.Source
			flush   func()
		)
		g, _ := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			bridges, err = inventory.LoadBridges(cfg.Data.Bridges)
			return err
		})
		g.Go(func() error {
			var err error
			tr, err = traffic.Load(cfg.Data.TrafficSurvey)
			return err
		})
		g.Go(func() error {
			var err error
			zones, flush, err = loadZones(cfg.Data.Earthquake)
			return err
		})
		if err := g.Wait(); err != nil {
			return err
		}
		defer flush()

		scorer := assess.NewBridgeScorer(fs, tr, zones)
		items := make([]*model.Bridge, len(bridges))
		for i := range bridges {
			items[i] = &bridges[i]
		}

		result, err := assess.Run(ctx, items, scorer)
		if err != nil {
			return err
		}

		return persistRun(ctx, model.RunKindBridges, fs.Tag, result.Processed, result.Failed, result.WithoutCoordinates,
			func(st store.Store, runID string) error {
				if err := st.InsertBridgeAssessments(ctx, runID, result.Assessments); err != nil {
					return err
				}
				if assessCSVPath != "" {
					return export.WriteBridgeCSV(result.Assessments, assessCSVPath)
				}
				return nil
			})
	},
}

var assessWallsCmd = &cobra.Command{
	Use:   "walls",
	Short: "Assess all retaining walls in the inventory",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		fs, err := formulaSet(assessRevision)
		if err != nil {
			return err
		}

		var (
			walls []model.SupportStructure
			tr    *traffic.Resolver
			zones zone.Source
			flush func()
		)
		g, _ := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			walls, err = inventory.LoadWalls(cfg.Data.Walls)
			return err
		})
		g.Go(func() error {
			var err error
			tr, err = traffic.Load(cfg.Data.TrafficSurvey)
			return err
		})
		g.Go(func() error {
			var err error
			zones, flush, err = loadZones(cfg.Data.Precipitation)
			return err
		})
		if err := g.Wait(); err != nil {
			return err
		}
		defer flush()

		scorer := assess.NewWallScorer(fs, tr, zones)
		items := make([]*model.SupportStructure, len(walls))
		for i := range walls {
			items[i] = &walls[i]
		}

		result, err := assess.Run(ctx, items, scorer)
		if err != nil {
			return err
		}

		return persistRun(ctx, model.RunKindWalls, fs.Tag, result.Processed, result.Failed, result.WithoutCoordinates,
			func(st store.Store, runID string) error {
				if err := st.InsertWallAssessments(ctx, runID, result.Assessments); err != nil {
					return err
				}
				if assessCSVPath != "" {
					return export.WriteWallCSV(result.Assessments, assessCSVPath)
				}
				return nil
			})
	},
}

// persistRun wraps a run around the insert callback and prints the summary.
func persistRun(ctx context.Context, kind model.RunKind, revision string, processed, failed, withoutCoordinates int,
	insert func(st store.Store, runID string) error) error {

	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	run, err := st.CreateRun(ctx, kind, revision)
	if err != nil {
		return err
	}
	run.Processed = processed
	run.Failed = failed
	run.WithoutCoordinates = withoutCoordinates

	if err := insert(st, run.ID); err != nil {
		run.Status = model.RunStatusFailed
		if cerr := st.CompleteRun(ctx, run); cerr != nil {
			zap.L().Error("complete run", zap.Error(cerr))
		}
		return err
	}

	run.Status = model.RunStatusComplete
	if err := st.CompleteRun(ctx, run); err != nil {
		return err
	}

	fmt.Printf("run %s: %d assessed, %d failed, %d without coordinates\n",
		run.ID, processed, failed, withoutCoordinates)
	return nil
}

func init() {
	assessCmd.PersistentFlags().StringVar(&assessRevision, "revision", "", "formula revision tag (default from config)")
	assessCmd.PersistentFlags().StringVar(&assessCSVPath, "csv", "", "also write assessments to this CSV file")
	assessCmd.AddCommand(assessBridgesCmd)
	assessCmd.AddCommand(assessWallsCmd)
	rootCmd.AddCommand(assessCmd)
}
