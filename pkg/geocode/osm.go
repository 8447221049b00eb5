package geocode

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/agrosense/crop-advisor/internal/model"
)

// osmResult is one entry of a Nominatim-style search response.
type osmResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// resolveOSM queries the OSM search endpoint for the best match.
func (g *geocoder) resolveOSM(ctx context.Context, text string) (model.Location, error) {
	q := url.Values{}
	q.Set("q", text)
	q.Set("format", "json")
	q.Set("limit", "1")
	q.Set("countrycodes", "in")

	endpoint := strings.TrimRight(g.baseURL, "/") + "/search?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return model.Location{}, eris.Wrap(err, "geocode: create request")
	}
	// Nominatim requires an identifying UA.
	req.Header.Set("User-Agent", "crop-advisor/1.0")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return model.Location{}, eris.Wrap(err, "geocode: provider request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return model.Location{}, eris.Errorf("geocode: provider status %d", resp.StatusCode)
	}

	var results []osmResult
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&results); err != nil {
		return model.Location{}, eris.Wrap(err, "geocode: decode response")
	}
	if len(results) == 0 {
		return model.Location{}, eris.Errorf("geocode: no match for %q", text)
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return model.Location{}, eris.Wrap(err, "geocode: parse latitude")
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return model.Location{}, eris.Wrap(err, "geocode: parse longitude")
	}

	name, region := splitDisplayName(results[0].DisplayName, text)
	return model.Location{
		Latitude:     lat,
		Longitude:    lon,
		ResolvedName: name,
		Region:       region,
	}, nil
}

// splitDisplayName extracts a short place name and its state from a
// comma-separated display name like "Amravati, Maharashtra, 444601, India".
func splitDisplayName(display, fallback string) (name, region string) {
	parts := strings.Split(display, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	switch {
	case len(parts) == 0 || parts[0] == "":
		name = fallback
	default:
		name = parts[0]
	}
	// The state is the last non-numeric component before "India".
	for i := len(parts) - 1; i >= 1; i-- {
		p := parts[i]
		if p == "" || strings.EqualFold(p, "India") {
			continue
		}
		if _, err := strconv.Atoi(p); err == nil {
			continue
		}
		region = p
		break
	}
	return name, region
}
