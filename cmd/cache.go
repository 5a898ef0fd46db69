package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/infrarisk-ch/kuba-risk-cli/internal/inventory"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the zone lookup caches",
}

var cacheWarmCmd = &cobra.Command{
	Use:   "warm",
	Short: "Precompute zone lookups for every inventory coordinate",
	Long:  "Resolves the earthquake zone of every bridge and the precipitation zone of every retaining wall, so assessment runs hit only the JSON caches instead of the shapefiles.",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		bridges, err := inventory.LoadBridges(cfg.Data.Bridges)
		if err != nil {
			return err
		}
		quake, flushQuake, err := loadZones(cfg.Data.Earthquake)
		if err != nil {
			return err
		}
		var warmed int
		for i := range bridges {
			if !bridges[i].HasPoint() {
				continue
			}
			quake.ZoneFor(bridges[i].E, bridges[i].N)
			warmed++
		}
		flushQuake()
		fmt.Printf("earthquake zones: %d coordinates warmed\n", warmed)

		walls, err := inventory.LoadWalls(cfg.Data.Walls)
		if err != nil {
			return err
		}
		rain, flushRain, err := loadZones(cfg.Data.Precipitation)
		if err != nil {
			return err
		}
		warmed = 0
		for i := range walls {
			if !walls[i].HasPoint() {
				continue
			}
			rain.ZoneFor(walls[i].E, walls[i].N)
			warmed++
		}
		flushRain()
		fmt.Printf("precipitation zones: %d coordinates warmed\n", warmed)

		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheWarmCmd)
	rootCmd.AddCommand(cacheCmd)
}
