package proofissuer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Behyna/gem-services/pkg/httpclient"
)

const IssueEndpoint = "/justifications"

// Issuer produces the artifact a user presents to a partner merchant as proof of redemption.
type Issuer interface {
	Issue(ctx context.Context, request IssueRequest) (IssueResponse, error)
}

type client struct {
	http   httpclient.HTTPClient
	config Config
}

func NewIssuer(cfg Config, httpClient httpclient.HTTPClient) Issuer {
	return &client{config: cfg, http: httpClient}
}

func (c *client) Issue(ctx context.Context, request IssueRequest) (IssueResponse, error) {
	if !c.config.Enable {
		return IssueResponse{}, ErrDisabled
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(request); err != nil {
		return IssueResponse{}, fmt.Errorf("encoding error: %w", err)
	}

	headers := map[string]string{
		httpclient.HeaderContentType: httpclient.ContentTypeJSON,
	}

	resp, err := c.http.Post(ctx, c.config.BaseURL+IssueEndpoint, &buf, headers)
	if err != nil {
		return IssueResponse{}, mapTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return IssueResponse{}, MapStatusToError(resp.StatusCode)
	}

	var response IssueResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return IssueResponse{}, fmt.Errorf("decoding error: %w", err)
	}

	if response.Result.Reference == "" {
		return IssueResponse{}, ErrUnavailable
	}

	return response, nil
}
