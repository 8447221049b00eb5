package market

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrosense/crop-advisor/internal/fetch"
	"github.com/agrosense/crop-advisor/internal/model"
	"github.com/agrosense/crop-advisor/internal/source"
)

func TestDataGovFetchNormalizes(t *testing.T) {
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("api-key")
		assert.Equal(t, "Maharashtra", r.URL.Query().Get("filters[State]"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"records": [
			{"state": "Maharashtra", "district": "Nagpur", "market": "Kalamna", "commodity": "Wheat",
			 "arrival_date": "2026-10-15", "min_price": "2300", "max_price": "2600", "modal_price": "2450"},
			{"state": "Maharashtra", "district": "Nagpur", "market": "Kalamna", "commodity": "Onion",
			 "arrival_date": "2026-10-15", "min_price": "n/a", "max_price": "2000", "modal_price": "1800"},
			{"state": "Maharashtra", "district": "Nagpur", "market": "Kalamna", "commodity": "Soybean",
			 "arrival_date": "2026-10-15", "min_price": "5000", "max_price": "4000", "modal_price": "4500"}
		]}`))
	}))
	defer srv.Close()

	adapter := NewDataGov(fetch.NewClient(), srv.URL, "test-key", testDataset(t))
	loc := model.Location{ResolvedName: "Nagpur", Region: "Maharashtra"}

	quotes, err := adapter.Fetch(context.Background(), loc, nil)
	require.NoError(t, err)
	assert.Equal(t, "test-key", gotKey)

	// Unparseable and min>max rows are dropped.
	require.Len(t, quotes, 1)
	q := quotes[0]
	assert.Equal(t, "Wheat", q.CropName)
	assert.Equal(t, "Kalamna, Nagpur", q.MandiName)
	assert.Equal(t, 2450.0, q.ModalPrice)
	assert.Equal(t, 2275.0, q.MSP)
	assert.InDelta(t, 7.7, q.ProfitVsMSP, 1e-9)
}

func TestDataGovFetchEmptyRecordsIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"records": []}`))
	}))
	defer srv.Close()

	adapter := NewDataGov(fetch.NewClient(), srv.URL, "test-key", testDataset(t))
	_, err := adapter.Fetch(context.Background(), model.Location{}, nil)
	assert.Error(t, err)
}

func TestDataGovLatchesOnRejectedKey(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	adapter := NewDataGov(fetch.NewClient(), srv.URL, "bad-key", testDataset(t))
	loc := model.Location{ResolvedName: "Nagpur"}

	_, err := adapter.Fetch(context.Background(), loc, nil)
	require.Error(t, err)
	assert.Equal(t, 1, hits)

	// The latch prevents any further network calls.
	_, err = adapter.Fetch(context.Background(), loc, nil)
	require.Error(t, err)
	assert.Equal(t, 1, hits)
}

func TestDataGovServerErrorDoesNotLatch(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	adapter := NewDataGov(fetch.NewClient(), srv.URL, "key", testDataset(t))
	loc := model.Location{ResolvedName: "Nagpur"}

	_, err := adapter.Fetch(context.Background(), loc, nil)
	require.Error(t, err)
	_, err = adapter.Fetch(context.Background(), loc, nil)
	require.Error(t, err)
	assert.Equal(t, 2, hits, "transient failures must stay retryable")
}

func TestDataGovCropFilterUsesCanonicalName(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Wheat", r.URL.Query().Get("filters[Commodity]"))
		w.Write([]byte(`{"records": [
			{"state": "Punjab", "district": "Ludhiana", "market": "Ludhiana", "commodity": "Wheat",
			 "arrival_date": "2026-11-02", "min_price": "2400", "max_price": "2700", "modal_price": "2550"}
		]}`))
	}))
	defer srv.Close()

	adapter := NewDataGov(fetch.NewClient(), srv.URL, "key", testDataset(t))
	quotes, err := adapter.Fetch(context.Background(), model.Location{}, source.Params{"crop": "wheat"})
	require.NoError(t, err)
	require.Len(t, quotes, 1)
	assert.Equal(t, "Ludhiana", quotes[0].MandiName)
}

func TestMandiName(t *testing.T) {
	assert.Equal(t, "Kalamna, Nagpur", mandiName("Kalamna", "Nagpur"))
	assert.Equal(t, "Nagpur", mandiName("Nagpur", "Nagpur"))
	assert.Equal(t, "Nagpur", mandiName("", "Nagpur"))
	assert.Equal(t, "Kalamna", mandiName("Kalamna", ""))
}
