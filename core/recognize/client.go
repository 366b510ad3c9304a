package recognize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"time"

	"MuzBot/logger"
)

// Match is a single fingerprint match entry.
type Match struct {
	ID     string  `json:"id"`
	Offset float64 `json:"offset,omitempty"`
}

// TrackInfo is the identified track metadata.
type TrackInfo struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"` // performing artist
}

// Result is the recognition service response. Empty Matches means the
// service could not identify the recording.
type Result struct {
	Matches []Match   `json:"matches"`
	Track   TrackInfo `json:"track"`
}

// Identified reports whether the service matched the recording.
func (r *Result) Identified() bool {
	return r != nil && len(r.Matches) > 0 && r.Track.Title != ""
}

// Query renders the catalog search query for an identified track.
func (r *Result) Query() string {
	if r.Track.Subtitle == "" {
		return r.Track.Title
	}
	return r.Track.Subtitle + " - " + r.Track.Title
}

// Client sends raw audio to the external fingerprint recognition API.
type Client struct {
	apiURL     string
	token      string
	httpClient *http.Client
}

// NewClient creates a recognition API client.
func NewClient(apiURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		apiURL: apiURL,
		token:  token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Recognize submits audio bytes and returns the best-effort identification.
// A nil error with empty Matches is a valid "no match" outcome.
func (c *Client) Recognize(ctx context.Context, audio []byte) (*Result, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	if c.token != "" {
		if err := writer.WriteField("api_token", c.token); err != nil {
			return nil, fmt.Errorf("failed to write token field: %w", err)
		}
	}
	part, err := writer.CreateFormFile("file", "sample.ogg")
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return nil, fmt.Errorf("failed to write audio bytes: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create recognition request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("recognition request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("recognition API returned status %d", resp.StatusCode)
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode recognition response: %w", err)
	}

	logger.Debug("recognition completed",
		logger.Int("audio_bytes", len(audio)),
		logger.Int("matches", len(result.Matches)),
		logger.String("title", result.Track.Title))

	return &result, nil
}
