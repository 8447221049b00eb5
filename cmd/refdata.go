package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agrosense/crop-advisor/internal/refdata"
)

var refdataCmd = &cobra.Command{
	Use:   "refdata",
	Short: "Inspect the embedded crop reference dataset",
}

var refdataValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the embedded crop dataset invariants",
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := refdata.Load()
		if err != nil {
			return err
		}
		fmt.Printf("dataset version %d: %d crops, ok\n", ds.Version, len(ds.Crops))
		return nil
	},
}

var refdataListCmd = &cobra.Command{
	Use:   "list",
	Short: "List crops, optionally filtered by season",
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := refdata.Load()
		if err != nil {
			return err
		}

		seasonFlag, _ := cmd.Flags().GetString("season")
		season, ok := refdata.ParseSeason(seasonFlag)
		if !ok {
			return fmt.Errorf("unknown season %q", seasonFlag)
		}

		for _, c := range ds.ForSeason(season) {
			fmt.Printf("%-12s %-14s %3dd  msp ₹%.0f\n", c.ID, c.Name, c.DurationDays, c.BasePrice())
		}
		return nil
	},
}

func init() {
	refdataListCmd.Flags().String("season", "", "kharif, rabi, or zaid (default: all)")
	refdataCmd.AddCommand(refdataValidateCmd, refdataListCmd)
	rootCmd.AddCommand(refdataCmd)
}
