// Package market acquires normalized mandi price quotes through the
// fallback chain: the data.gov.in OGD current-prices resource primary, a
// mirror endpoint secondary, and a deterministic MSP-seasonal generator
// when every live source fails.
package market

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/agrosense/crop-advisor/internal/fetch"
	"github.com/agrosense/crop-advisor/internal/model"
	"github.com/agrosense/crop-advisor/internal/refdata"
	"github.com/agrosense/crop-advisor/internal/source"
)

// DataGovBaseURL is the OGD resource endpoint for daily mandi prices.
const DataGovBaseURL = "https://api.data.gov.in/resource/9ef84268-d588-465a-a308-a864a43d0070"

// SampleAPIKey is the public, heavily rate-limited OGD demonstration key,
// used when no key is configured.
const SampleAPIKey = "579b464db66ec23bdd000001cdd3946e44ce4aad7209ff7b23ac571b"

// DataGov is the primary market price adapter. A missing or rejected API
// key latches the adapter as permanently failed so the chain skips it
// without another network call.
type DataGov struct {
	client  *fetch.Client
	baseURL string
	apiKey  string
	ref     *refdata.Dataset
	latch   source.Latch
}

// NewDataGov creates the adapter. A nil client gets a default one; an
// empty key falls back to the public sample key.
func NewDataGov(client *fetch.Client, baseURL, apiKey string, ref *refdata.Dataset) *DataGov {
	if client == nil {
		client = fetch.NewClient()
	}
	if baseURL == "" {
		baseURL = DataGovBaseURL
	}
	if apiKey == "" {
		apiKey = SampleAPIKey
	}
	return &DataGov{client: client, baseURL: baseURL, apiKey: apiKey, ref: ref}
}

// Name implements source.Adapter.
func (d *DataGov) Name() string { return "data.gov.in" }

// dataGovResponse mirrors the OGD resource shape. Prices arrive as strings.
type dataGovResponse struct {
	Records []struct {
		State       string `json:"state"`
		District    string `json:"district"`
		Market      string `json:"market"`
		Commodity   string `json:"commodity"`
		ArrivalDate string `json:"arrival_date"`
		MinPrice    string `json:"min_price"`
		MaxPrice    string `json:"max_price"`
		ModalPrice  string `json:"modal_price"`
	} `json:"records"`
}

// Fetch implements source.Adapter.
func (d *DataGov) Fetch(ctx context.Context, loc model.Location, params source.Params) ([]model.MarketPriceQuote, error) {
	if d.latch.Tripped() {
		return nil, eris.Errorf("datagov: permanently failed: %s", d.latch.Reason())
	}

	q := url.Values{}
	q.Set("format", "json")
	q.Set("limit", "50")
	if loc.Region != "" {
		q.Set("filters[State]", loc.Region)
	}
	if mandi := params.Get("mandi"); mandi != "" {
		q.Set("filters[Market]", mandi)
	}
	if crop := params.Get("crop"); crop != "" {
		if c := d.ref.Match(crop); c != nil {
			q.Set("filters[Commodity]", c.Name)
		} else {
			q.Set("filters[Commodity]", crop)
		}
	}

	headers := map[string]string{"api-key": d.apiKey}
	var resp dataGovResponse
	if err := d.client.GetJSON(ctx, d.baseURL+"?"+q.Encode(), headers, &resp); err != nil {
		if fetch.IsAuthError(err) {
			d.latch.Trip("api key rejected")
			zap.L().Warn("datagov: api key rejected, disabling adapter for process lifetime")
		}
		return nil, eris.Wrap(err, "datagov: fetch")
	}

	quotes := d.normalize(resp)
	if len(quotes) == 0 {
		return nil, eris.New("datagov: no usable records")
	}
	return quotes, nil
}

// normalize maps provider rows into quotes, dropping rows whose prices do
// not parse or violate min <= modal <= max.
func (d *DataGov) normalize(resp dataGovResponse) []model.MarketPriceQuote {
	var quotes []model.MarketPriceQuote
	for _, r := range resp.Records {
		minP, err1 := strconv.ParseFloat(strings.TrimSpace(r.MinPrice), 64)
		maxP, err2 := strconv.ParseFloat(strings.TrimSpace(r.MaxPrice), 64)
		modal, err3 := strconv.ParseFloat(strings.TrimSpace(r.ModalPrice), 64)
		if err1 != nil || err2 != nil || err3 != nil {
			continue
		}
		if minP > modal || modal > maxP || modal <= 0 {
			continue
		}

		quote := model.MarketPriceQuote{
			CropName:   r.Commodity,
			MandiName:  mandiName(r.Market, r.District),
			MinPrice:   minP,
			ModalPrice: modal,
			MaxPrice:   maxP,
			Unit:       model.PriceUnit,
			Date:       r.ArrivalDate,
		}
		if c := d.ref.Match(r.Commodity); c != nil && c.MSP > 0 {
			quote.MSP = c.MSP
			quote.ProfitVsMSP = model.ProfitVsMSP(modal, c.MSP)
		}
		quotes = append(quotes, quote)
	}
	return quotes
}

func mandiName(market, district string) string {
	market = strings.TrimSpace(market)
	district = strings.TrimSpace(district)
	if market == "" {
		return district
	}
	if district == "" || strings.EqualFold(market, district) {
		return market
	}
	return market + ", " + district
}
