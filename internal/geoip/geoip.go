// Package geoip guesses the machine's location from its public IP address.
package geoip

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/muezzin/internal/model"
)

type Detector struct {
	url  string
	http *http.Client
}

func NewDetector(url string) *Detector {
	return &Detector{
		url:  url,
		http: &http.Client{Timeout: 5 * time.Second},
	}
}

type ipAPIResponse struct {
	Status  string  `json:"status"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	City    string  `json:"city"`
	Country string  `json:"country"`
	Zone    string  `json:"timezone"`
}

// Lookup queries the ip-api.com compatible endpoint.
func (d *Detector) Lookup(ctx context.Context) (model.Location, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.url, nil)
	if err != nil {
		return model.Location{}, err
	}
	resp, err := d.http.Do(req)
	if err != nil {
		return model.Location{}, err
	}
	defer resp.Body.Close()

	var body ipAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return model.Location{}, fmt.Errorf("decode location: %w", err)
	}
	if body.Status != "success" {
		return model.Location{}, fmt.Errorf("location lookup status %q", body.Status)
	}
	return model.Location{
		Latitude:  body.Lat,
		Longitude: body.Lon,
		City:      body.City,
		Country:   body.Country,
		Timezone:  body.Zone,
	}, nil
}

// Detect never fails: any lookup error falls back to Mecca.
func (d *Detector) Detect(ctx context.Context) model.Location {
	loc, err := d.Lookup(ctx)
	if err != nil {
		log.Warn().Err(err).Str("fallback", model.Mecca.City).Msg("location detection failed")
		return model.Mecca
	}
	return loc
}
