package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// ORSClient queries the OpenRouteService directions API for driving
// distance. One round trip per call; no caching, no retries — retry policy
// belongs to callers that want it.
type ORSClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewORSClient(baseURL, apiKey string, timeout time.Duration) *ORSClient {
	return &ORSClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

// orsResponse is the slice of the GeoJSON directions payload we care about:
// the route summary distance, reported in meters.
type orsResponse struct {
	Features []struct {
		Properties struct {
			Summary struct {
				Distance float64 `json:"distance"`
			} `json:"summary"`
		} `json:"properties"`
	} `json:"features"`
}

func (o *ORSClient) DistanceKm(ctx context.Context, from, to Point) (float64, error) {
	q := url.Values{}
	q.Set("api_key", o.apiKey)
	// ORS expects lng,lat order
	q.Set("start", fmt.Sprintf("%f,%f", from.Lng, from.Lat))
	q.Set("end", fmt.Sprintf("%f,%f", to.Lng, to.Lat))

	reqURL := o.baseURL + "/v2/directions/driving-car?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return 0, err
	}

	resp, err := o.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("ors request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("ors status %d", resp.StatusCode)
	}

	var body orsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("ors decode: %w", err)
	}
	if len(body.Features) == 0 {
		return 0, fmt.Errorf("ors: no route between points")
	}

	return body.Features[0].Properties.Summary.Distance / 1000.0, nil
}
