package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"suratdesa/internal/registry/models"
	"suratdesa/internal/sentinel"
	id "suratdesa/pkg/domain"
)

// Client queries the civil registry by national ID.
// Error Contract:
// - sentinel.ErrNotFound when the identifier is not registered
// - sentinel.ErrUnavailable when the registry cannot be reached or answers
//   with a server-side failure; callers degrade to manual entry
type Client interface {
	Lookup(ctx context.Context, nationalID id.NationalID) (*models.Record, error)
}

// HTTPClient implements Client against the registry's HTTP API.
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

var _ Client = (*HTTPClient)(nil)

// HTTPClientOption configures the HTTPClient.
type HTTPClientOption func(*HTTPClient)

// WithHTTPClient sets a custom HTTP client (for testing).
func WithHTTPClient(client *http.Client) HTTPClientOption {
	return func(c *HTTPClient) {
		c.httpClient = client
	}
}

// NewHTTPClient creates an HTTP-based registry client.
func NewHTTPClient(baseURL, apiKey string, timeout time.Duration, opts ...HTTPClientOption) *HTTPClient {
	c := &HTTPClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// recordResponse is the wire shape of a successful lookup.
type recordResponse struct {
	NationalID      string `json:"national_id"`
	FullName        string `json:"full_name"`
	BirthPlace      string `json:"birth_place"`
	BirthDate       string `json:"birth_date"`
	Gender          string `json:"gender"`
	Religion        string `json:"religion"`
	MaritalStatus   string `json:"marital_status"`
	Occupation      string `json:"occupation"`
	Nationality     string `json:"nationality"`
	Education       string `json:"education"`
	BloodType       string `json:"blood_type"`
	Address         string `json:"address"`
	Unit            string `json:"unit"`
	SubUnit         string `json:"sub_unit"`
	Telephone       string `json:"telephone"`
	HouseholdNumber string `json:"household_number"`
	HouseholdHead   string `json:"household_head_name"`
	RelationToHead  string `json:"relation_to_head"`
	FetchedAt       string `json:"fetched_at"`
}

// Lookup fetches the registry record for a full-length national ID.
func (c *HTTPClient) Lookup(ctx context.Context, nationalID id.NationalID) (*models.Record, error) {
	url := fmt.Sprintf("%s/api/v1/residents/%s", c.baseURL, nationalID.String())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create registry request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("registry lookup timed out: %w", sentinel.ErrUnavailable)
		}
		return nil, fmt.Errorf("registry lookup failed: %w", sentinel.ErrUnavailable)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read registry response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		// parsed below
	case http.StatusNotFound:
		return nil, sentinel.ErrNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, fmt.Errorf("registry rejected credentials: %w", sentinel.ErrUnavailable)
	case http.StatusTooManyRequests, http.StatusServiceUnavailable, http.StatusBadGateway, http.StatusGatewayTimeout:
		return nil, fmt.Errorf("registry unavailable (status %d): %w", resp.StatusCode, sentinel.ErrUnavailable)
	default:
		return nil, fmt.Errorf("unexpected registry status %d: %w", resp.StatusCode, sentinel.ErrUnavailable)
	}

	var rec recordResponse
	if err := json.Unmarshal(body, &rec); err != nil {
		return nil, fmt.Errorf("parse registry response: %w", sentinel.ErrUnavailable)
	}

	fetchedAt, err := time.Parse(time.RFC3339, rec.FetchedAt)
	if err != nil {
		fetchedAt = time.Now()
	}

	return &models.Record{
		NationalID:      id.NationalID(rec.NationalID),
		FullName:        rec.FullName,
		BirthPlace:      rec.BirthPlace,
		BirthDate:       rec.BirthDate,
		Gender:          rec.Gender,
		Religion:        rec.Religion,
		MaritalStatus:   rec.MaritalStatus,
		Occupation:      rec.Occupation,
		Nationality:     rec.Nationality,
		Education:       rec.Education,
		BloodType:       rec.BloodType,
		Address:         rec.Address,
		Unit:            rec.Unit,
		SubUnit:         rec.SubUnit,
		Telephone:       rec.Telephone,
		HouseholdNumber: rec.HouseholdNumber,
		HouseholdHead:   rec.HouseholdHead,
		RelationToHead:  rec.RelationToHead,
		FetchedAt:       fetchedAt,
	}, nil
}
