package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/agrosense/crop-advisor/internal/advisor"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Rank crops for a location, season, and soil type",
	Long: `Rank season-eligible crops for a location by soil fit, weather fit,
price trend, input cost, cycle duration, and regional history, with a
per-acre profit projection and a plain-language rationale for each pick.

Examples:
  # Current season, no soil information
  recommend --location "Nagpur"

  # Rabi season on black soil, top 3 only
  recommend --location "Pune, Maharashtra" --season rabi --soil black --top 3`,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := initAdvisor()
		if err != nil {
			return err
		}

		location, _ := cmd.Flags().GetString("location")
		season, _ := cmd.Flags().GetString("season")
		soil, _ := cmd.Flags().GetString("soil")
		topN, _ := cmd.Flags().GetInt("top")
		if topN <= 0 {
			topN = cfg.Advisor.TopN
		}

		resp, err := svc.Recommend(cmd.Context(), advisor.Query{
			Location: location,
			Season:   season,
			SoilType: soil,
			TopN:     topN,
		})
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(resp); err != nil {
			return eris.Wrap(err, "recommend: encode output")
		}
		return nil
	},
}

func init() {
	f := recommendCmd.Flags()
	f.String("location", "", "free-text location (city, district, or \"city, state\")")
	f.String("season", "", "sowing season: kharif, rabi, or zaid (default: current)")
	f.String("soil", "", "soil type, e.g. black, alluvial, red, loamy, sandy, clay")
	f.Int("top", 0, "number of recommendations (default from config)")
	rootCmd.AddCommand(recommendCmd)
}
