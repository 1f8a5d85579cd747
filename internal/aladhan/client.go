// Package aladhan fetches daily prayer times from the aladhan.com timings API.
package aladhan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/muezzin/internal/model"
)

// ErrBadStatus is returned when the API answers with a non-200 code.
var ErrBadStatus = errors.New("aladhan: unexpected status")

type Client struct {
	baseURL   string
	latitude  float64
	longitude float64
	method    int
	http      *http.Client
}

func NewClient(baseURL string, loc model.Location, method int) *Client {
	return &Client{
		baseURL:   baseURL,
		latitude:  loc.Latitude,
		longitude: loc.Longitude,
		method:    method,
		http:      &http.Client{Timeout: 10 * time.Second},
	}
}

type timingsResponse struct {
	Code   int    `json:"code"`
	Status string `json:"status"`
	Data   struct {
		Timings map[string]string `json:"timings"`
	} `json:"data"`
}

// Fetch returns the five prayer times for date's calendar day.
func (c *Client) Fetch(ctx context.Context, date time.Time) (model.DaySchedule, error) {
	endpoint := fmt.Sprintf("%s/v1/timings/%s", c.baseURL, date.Format("02-01-2006"))
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(c.latitude, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(c.longitude, 'f', -1, 64))
	q.Set("method", strconv.Itoa(c.method))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return model.DaySchedule{}, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return model.DaySchedule{}, fmt.Errorf("fetch prayer times: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return model.DaySchedule{}, fmt.Errorf("%w: %s", ErrBadStatus, resp.Status)
	}

	var body timingsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return model.DaySchedule{}, fmt.Errorf("decode prayer times: %w", err)
	}
	if body.Code != http.StatusOK {
		return model.DaySchedule{}, fmt.Errorf("%w: code %d (%s)", ErrBadStatus, body.Code, body.Status)
	}

	times := make(model.Schedule, len(model.Labels))
	for _, l := range model.Labels {
		raw, ok := body.Data.Timings[string(l)]
		if !ok {
			return model.DaySchedule{}, fmt.Errorf("aladhan: no timing for %s", l)
		}
		t, err := model.ParseTimeOfDay(raw)
		if err != nil {
			return model.DaySchedule{}, fmt.Errorf("aladhan: %s: %w", l, err)
		}
		times[l] = t
	}

	log.Info().Str("date", date.Format(model.DateLayout)).Int("method", c.method).Msg("fetched prayer times")

	return model.DaySchedule{
		Date:      date.Format(model.DateLayout),
		Latitude:  c.latitude,
		Longitude: c.longitude,
		Method:    c.method,
		Times:     times,
		FetchedAt: time.Now().UTC(),
	}, nil
}
