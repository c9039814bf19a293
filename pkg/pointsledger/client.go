package pointsledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/Behyna/gem-services/pkg/httpclient"
)

const (
	BalanceEndpoint = "/users/%s/points"
	DebitEndpoint   = "/points/debit"
	CreditEndpoint  = "/points/credit"
)

// Client talks to the external points ledger that conversions draw from.
type Client interface {
	Balance(ctx context.Context, userID string) (BalanceResponse, error)
	Debit(ctx context.Context, request MovePointsRequest) (MoveResponse, error)
	Credit(ctx context.Context, request MovePointsRequest) (MoveResponse, error)
}

type client struct {
	http   httpclient.HTTPClient
	config Config
}

func NewClient(cfg Config, httpClient httpclient.HTTPClient) Client {
	return &client{config: cfg, http: httpClient}
}

func (c *client) Balance(ctx context.Context, userID string) (BalanceResponse, error) {
	endpoint := c.config.BaseURL + fmt.Sprintf(BalanceEndpoint, url.PathEscape(userID))

	resp, err := c.http.Get(ctx, endpoint, nil)
	if err != nil {
		return BalanceResponse{}, mapTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != StatusOK {
		return BalanceResponse{}, MapStatusToError(resp.StatusCode)
	}

	var response BalanceResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return BalanceResponse{}, fmt.Errorf("decoding error: %w", err)
	}

	return response, nil
}

func (c *client) Debit(ctx context.Context, request MovePointsRequest) (MoveResponse, error) {
	return c.move(ctx, DebitEndpoint, request)
}

func (c *client) Credit(ctx context.Context, request MovePointsRequest) (MoveResponse, error) {
	return c.move(ctx, CreditEndpoint, request)
}

func (c *client) move(ctx context.Context, endpoint string, request MovePointsRequest) (MoveResponse, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(request); err != nil {
		return MoveResponse{}, fmt.Errorf("encoding error: %w", err)
	}

	headers := map[string]string{
		httpclient.HeaderContentType: httpclient.ContentTypeJSON,
	}

	resp, err := c.http.Post(ctx, c.config.BaseURL+endpoint, &buf, headers)
	if err != nil {
		return MoveResponse{}, mapTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return MoveResponse{}, MapStatusToError(resp.StatusCode)
	}

	var response MoveResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return MoveResponse{}, fmt.Errorf("decoding error: %w", err)
	}

	return response, nil
}
