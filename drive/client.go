package drive

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"
)

// Default Google Drive v3 endpoints. Variables so tests can point a client
// at a fake server.
var (
	APIBase    = "https://www.googleapis.com/drive/v3"
	UploadBase = "https://www.googleapis.com/upload/drive/v3"
)

// Client is a thin Drive v3 REST client authorized as a single event owner.
type Client struct {
	httpClient *http.Client
	apiBase    string
	uploadBase string
}

// ClientFor builds a client from the owner's stored credential. Returns
// ErrNotConnected when the owner has no usable token pair.
func ClientFor(ctx context.Context, ownerID uint64) (*Client, error) {
	ts, err := TokenSourceFor(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return &Client{
		httpClient: oauth2.NewClient(ctx, ts),
		apiBase:    APIBase,
		uploadBase: UploadBase,
	}, nil
}

// NewClient wires an explicit http.Client and endpoints. Used by tests.
func NewClient(httpClient *http.Client, apiBase, uploadBase string) *Client {
	return &Client{
		httpClient: httpClient,
		apiBase:    apiBase,
		uploadBase: uploadBase,
	}
}

// APIError is a non-2xx reply from the Drive API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("drive: status %d: %s", e.StatusCode, e.Body)
}

// do runs the request and converts non-2xx replies to *APIError. On success
// the caller owns the response body.
func (c *Client) do(req *http.Request) (*http.Response, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	resp.Body.Close()
	return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
}
