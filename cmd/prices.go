package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var pricesCmd = &cobra.Command{
	Use:   "prices",
	Short: "Show mandi prices near a location",
	Long: `Show current mandi prices near a location, ordered by premium over
MSP. Optionally filter to one crop or one mandi.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := initAdvisor()
		if err != nil {
			return err
		}

		location, _ := cmd.Flags().GetString("location")
		crop, _ := cmd.Flags().GetString("crop")
		mandi, _ := cmd.Flags().GetString("mandi")
		resp := svc.Prices(cmd.Context(), location, crop, mandi)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(resp); err != nil {
			return eris.Wrap(err, "prices: encode output")
		}
		return nil
	},
}

func init() {
	f := pricesCmd.Flags()
	f.String("location", "", "free-text location")
	f.String("crop", "", "filter to one crop name")
	f.String("mandi", "", "filter to one mandi name")
	rootCmd.AddCommand(pricesCmd)
}
