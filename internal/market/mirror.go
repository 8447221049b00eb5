package market

import (
	"context"
	"net/url"

	"github.com/rotisserie/eris"

	"github.com/agrosense/crop-advisor/internal/fetch"
	"github.com/agrosense/crop-advisor/internal/model"
	"github.com/agrosense/crop-advisor/internal/refdata"
	"github.com/agrosense/crop-advisor/internal/source"
)

// Mirror is the secondary market adapter: a community mirror of the daily
// mandi bulletin that serves the same records schema without an API key.
// Disabled (always failing) when no base URL is configured.
type Mirror struct {
	client  *fetch.Client
	baseURL string
	ref     *refdata.Dataset
}

// NewMirror creates the adapter. A nil client gets a default one.
func NewMirror(client *fetch.Client, baseURL string, ref *refdata.Dataset) *Mirror {
	if client == nil {
		client = fetch.NewClient()
	}
	return &Mirror{client: client, baseURL: baseURL, ref: ref}
}

// Name implements source.Adapter.
func (m *Mirror) Name() string { return "mandi-mirror" }

// Fetch implements source.Adapter.
func (m *Mirror) Fetch(ctx context.Context, loc model.Location, params source.Params) ([]model.MarketPriceQuote, error) {
	if m.baseURL == "" {
		return nil, eris.New("mirror: no base url configured")
	}

	q := url.Values{}
	if loc.Region != "" {
		q.Set("state", loc.Region)
	}
	if mandi := params.Get("mandi"); mandi != "" {
		q.Set("market", mandi)
	}
	if crop := params.Get("crop"); crop != "" {
		q.Set("commodity", crop)
	}

	var resp dataGovResponse
	if err := m.client.GetJSON(ctx, m.baseURL+"?"+q.Encode(), nil, &resp); err != nil {
		return nil, eris.Wrap(err, "mirror: fetch")
	}

	// Same record schema as the primary, so the same normalization applies.
	shim := &DataGov{ref: m.ref}
	quotes := shim.normalize(resp)
	if len(quotes) == 0 {
		return nil, eris.New("mirror: no usable records")
	}
	return quotes, nil
}
