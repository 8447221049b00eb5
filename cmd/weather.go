package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var weatherCmd = &cobra.Command{
	Use:   "weather",
	Short: "Show current weather and 7-day forecast for a location",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := initAdvisor()
		if err != nil {
			return err
		}

		location, _ := cmd.Flags().GetString("location")
		resp := svc.Weather(cmd.Context(), location)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(resp); err != nil {
			return eris.Wrap(err, "weather: encode output")
		}
		return nil
	},
}

func init() {
	weatherCmd.Flags().String("location", "", "free-text location")
	rootCmd.AddCommand(weatherCmd)
}
