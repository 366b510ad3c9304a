package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"MuzBot/logger"
	"MuzBot/model"
)

// rawTrack is a track entry as the catalog API returns it.
type rawTrack struct {
	ID       string `json:"id"`
	OwnerID  int64  `json:"owner_id"`
	ItemID   int64  `json:"item_id"`
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	Duration int    `json:"duration"`
	URL      string `json:"url"`
	ThumbURL string `json:"thumb_url,omitempty"`
}

// descriptor maps a raw API track into the domain descriptor.
func (t *rawTrack) descriptor() model.CatalogTrack {
	id := t.ID
	if id == "" {
		id = fmt.Sprintf("%d_%d", t.OwnerID, t.ItemID)
	}
	return model.CatalogTrack{
		ID:       id,
		Title:    t.Title,
		Artist:   t.Artist,
		Duration: t.Duration,
		MediaURL: t.URL,
		ThumbURL: t.ThumbURL,
	}
}

// Search queries the catalog for tracks matching query, in ranked order.
// offset must be non-negative; limit caps the returned page.
func (c *Client) Search(ctx context.Context, query string, limit, offset int) ([]model.CatalogTrack, error) {
	if offset < 0 {
		return nil, fmt.Errorf("negative search offset %d", offset)
	}

	endpoint := fmt.Sprintf("%s/audio/search?q=%s&count=%d&offset=%d",
		c.baseURL, url.QueryEscape(query), limit, offset)

	req, err := c.createRequest(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create search request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog API returned status %d", resp.StatusCode)
	}

	var result struct {
		Code   int        `json:"code"`
		Msg    string     `json:"msg,omitempty"`
		Tracks []rawTrack `json:"tracks"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}
	if result.Code != 200 {
		return nil, fmt.Errorf("catalog API error: %s (code: %d)", result.Msg, result.Code)
	}

	tracks := make([]model.CatalogTrack, 0, len(result.Tracks))
	for i := range result.Tracks {
		tracks = append(tracks, result.Tracks[i].descriptor())
	}

	logger.Debug("catalog search completed",
		logger.String("query", query),
		logger.Int("offset", offset),
		logger.Int("results", len(tracks)))

	return tracks, nil
}

// TrackByID fetches a single track by its composite catalog id.
// Returns nil when the catalog does not know the id.
func (c *Client) TrackByID(ctx context.Context, id string) (*model.CatalogTrack, error) {
	endpoint := fmt.Sprintf("%s/audio/by_id?id=%s", c.baseURL, url.QueryEscape(id))

	req, err := c.createRequest(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create lookup request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("lookup request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog API returned status %d", resp.StatusCode)
	}

	var result struct {
		Code  int       `json:"code"`
		Msg   string    `json:"msg,omitempty"`
		Track *rawTrack `json:"track"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode lookup response: %w", err)
	}
	if result.Code != 200 {
		return nil, fmt.Errorf("catalog API error: %s (code: %d)", result.Msg, result.Code)
	}
	if result.Track == nil {
		return nil, nil
	}

	track := result.Track.descriptor()
	return &track, nil
}
