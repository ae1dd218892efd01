// Package rating talks to the external rating service and keeps the
// locally stored caregiver aggregates in sync with it.
package rating

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	dErrors "pandacare/pkg/domain-errors"
)

// Client is the HTTP client for the rating service.
type Client struct {
	baseURL string
	httpc   *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: 5 * time.Second},
	}
}

// apiResponse is the rating service's uniform envelope. Success is 1
// on a served request, anything else means the payload is unusable.
type apiResponse struct {
	Success int      `json:"success"`
	Data    []Rating `json:"data"`
}

// RatingsByDoctorID fetches all ratings for one caregiver.
func (c *Client) RatingsByDoctorID(ctx context.Context, doctorID int64) ([]Rating, error) {
	url := fmt.Sprintf("%s/api/rating/doctor/%d", c.baseURL, doctorID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "build rating request")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "call rating service")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, dErrors.New(dErrors.CodeInternal, fmt.Sprintf("rating service returned %d", resp.StatusCode))
	}

	var envelope apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "decode rating response")
	}
	if envelope.Success != 1 {
		return nil, nil
	}
	return envelope.Data, nil
}

// Summary fetches and aggregates a caregiver's ratings.
func (c *Client) Summary(ctx context.Context, doctorID int64) (Summary, error) {
	ratings, err := c.RatingsByDoctorID(ctx, doctorID)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(ratings), nil
}

// Healthy probes the rating service's health endpoint.
func (c *Client) Healthy(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/actuator/health", nil)
	if err != nil {
		return false
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
