package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	httpclient "github.com/piresc/ordertrack/internal/pkg/http"
	"github.com/piresc/ordertrack/internal/pkg/models"
)

// ErrSnapshotNotFound is returned when the order is unknown or not visible to the caller
var ErrSnapshotNotFound = errors.New("snapshot not found")

// SnapshotClient fetches the last known courier position over REST while the
// socket is unavailable
type SnapshotClient struct {
	client     *httpclient.Client
	credential string
}

// NewSnapshotClient creates a snapshot client for the relay's HTTP API
func NewSnapshotClient(baseURL, credential string, timeout time.Duration) *SnapshotClient {
	return &SnapshotClient{
		client:     httpclient.NewClient(httpclient.Config{BaseURL: baseURL, Timeout: timeout}),
		credential: credential,
	}
}

type snapshotResponse struct {
	Data models.PositionSnapshot `json:"data"`
}

// Fetch returns the order's current channel snapshot
func (s *SnapshotClient) Fetch(ctx context.Context, orderID string) (*models.PositionSnapshot, error) {
	var resp snapshotResponse
	path := "/tracking/orders/" + url.PathEscape(orderID) + "/position"
	headers := map[string]string{"Authorization": "Bearer " + s.credential}

	if err := s.client.GetJSON(ctx, path, nil, headers, &resp); err != nil {
		var httpErr *httpclient.HTTPError
		if errors.As(err, &httpErr) && (httpErr.StatusCode == http.StatusNotFound || httpErr.StatusCode == http.StatusForbidden) {
			return nil, fmt.Errorf("%w: %s", ErrSnapshotNotFound, orderID)
		}
		return nil, fmt.Errorf("failed to fetch snapshot for %s: %w", orderID, err)
	}
	return &resp.Data, nil
}
