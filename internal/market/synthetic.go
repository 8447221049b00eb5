package market

import (
	"math"
	"time"

	"github.com/agrosense/crop-advisor/internal/model"
	"github.com/agrosense/crop-advisor/internal/refdata"
	"github.com/agrosense/crop-advisor/internal/source"
)

// SyntheticName identifies the fallback generator in data_source fields.
const SyntheticName = "msp-seasonal-reference"

// Synthetic derives quotes from the government reference price and the
// crop's 12-entry seasonal premium table:
//
//	modal = round(reference_price × premium[month])
//	min   = round(0.95 × modal)
//	max   = round(1.05 × modal)
//
// The path is pure — no randomness — so output is explainable to farmers
// and reproducible in tests.
type Synthetic struct {
	ref *refdata.Dataset
}

// NewSynthetic creates the generator over the reference dataset.
func NewSynthetic(ref *refdata.Dataset) *Synthetic {
	return &Synthetic{ref: ref}
}

// Name implements source.Synthesizer.
func (s *Synthetic) Name() string { return SyntheticName }

// Synthesize returns quotes for the requested crop, or for every crop in
// the dataset when no crop filter is set.
func (s *Synthetic) Synthesize(loc model.Location, params source.Params, asOf time.Time) []model.MarketPriceQuote {
	var profiles []*refdata.CropProfile
	if crop := params.Get("crop"); crop != "" {
		if c := s.ref.Match(crop); c != nil {
			profiles = []*refdata.CropProfile{c}
		}
	}
	if profiles == nil {
		profiles = s.ref.ForSeason("")
	}

	quotes := make([]model.MarketPriceQuote, 0, len(profiles))
	for _, c := range profiles {
		quotes = append(quotes, s.QuoteFor(c, loc, asOf))
	}
	return quotes
}

// QuoteFor derives the synthetic quote for one crop.
func (s *Synthetic) QuoteFor(c *refdata.CropProfile, loc model.Location, asOf time.Time) model.MarketPriceQuote {
	premium := c.SeasonalPremium[asOf.Month()-1]
	modal := math.Round(c.BasePrice() * premium)

	quote := model.MarketPriceQuote{
		CropName:   c.Name,
		MandiName:  loc.ResolvedName + " (reference)",
		MinPrice:   math.Round(0.95 * modal),
		ModalPrice: modal,
		MaxPrice:   math.Round(1.05 * modal),
		Unit:       model.PriceUnit,
		Date:       asOf.Format("2006-01-02"),
	}
	if c.MSP > 0 {
		quote.MSP = c.MSP
		quote.ProfitVsMSP = model.ProfitVsMSP(modal, c.MSP)
	}
	return quote
}
