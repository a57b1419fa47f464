package suggestion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mcoot/game2048/internal/model"
)

// PromptRequest is the body posted to /prompt
type PromptRequest struct {
	BoardValues model.BoardValues `json:"boardValues"`
}

// Client calls a remote suggestion service over HTTP
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the suggestion service at baseURL
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Suggest posts the board to the remote /prompt endpoint. A malformed board
// is rejected before any request is made.
func (c *Client) Suggest(ctx context.Context, values model.BoardValues) (model.Suggestion, error) {
	if err := values.Validate(); err != nil {
		return model.Suggestion{}, err
	}

	body, err := json.Marshal(PromptRequest{BoardValues: values})
	if err != nil {
		return model.Suggestion{}, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/prompt", bytes.NewReader(body))
	if err != nil {
		return model.Suggestion{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.Suggestion{}, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.Suggestion{}, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &errResp) == nil && errResp.Error != "" {
			return model.Suggestion{}, fmt.Errorf("%w (%d): %s", ErrRemote, resp.StatusCode, errResp.Error)
		}
		return model.Suggestion{}, fmt.Errorf("%w (%d)", ErrRemote, resp.StatusCode)
	}

	var suggestion model.Suggestion
	if err := json.Unmarshal(data, &suggestion); err != nil {
		return model.Suggestion{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return suggestion, nil
}
