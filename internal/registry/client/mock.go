package client

import (
	"context"
	"sync"
	"time"

	"suratdesa/internal/registry/models"
	"suratdesa/internal/sentinel"
	id "suratdesa/pkg/domain"
)

// MockClient serves registry lookups from a fixed in-memory dataset with a
// configurable latency to mimic the real service. Used in tests and local
// runs without a registry endpoint.
type MockClient struct {
	Latency time.Duration

	mu      sync.RWMutex
	records map[id.NationalID]*models.Record
	fail    bool
}

// NewMock constructs an empty mock registry client.
func NewMock() *MockClient {
	return &MockClient{records: make(map[id.NationalID]*models.Record)}
}

// Seed adds or replaces a record in the dataset.
func (c *MockClient) Seed(record *models.Record) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records[record.NationalID] = record
}

// SetUnavailable toggles simulated outage mode.
func (c *MockClient) SetUnavailable(down bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fail = down
}

func (c *MockClient) Lookup(_ context.Context, nationalID id.NationalID) (*models.Record, error) {
	time.Sleep(c.Latency)
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.fail {
		return nil, sentinel.ErrUnavailable
	}
	record, ok := c.records[nationalID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copyRecord := *record
	return &copyRecord, nil
}
