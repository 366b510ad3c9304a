package flow

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"MuzBot/cache"
	"MuzBot/logger"
	"MuzBot/model"

	"github.com/google/uuid"
)

// maxCallbackData is the platform limit for callback payload bytes.
const maxCallbackData = 64

// Catalog is the external audio catalog the session searches against.
type Catalog interface {
	Search(ctx context.Context, query string, limit, offset int) ([]model.CatalogTrack, error)
	TrackByID(ctx context.Context, id string) (*model.CatalogTrack, error)
}

// MediaCache stores materialized audio bytes keyed by catalog id, so a
// popular track is downloaded from the catalog CDN only once.
type MediaCache interface {
	Get(ctx context.Context, trackID string) ([]byte, error) // nil, nil on miss
	Put(ctx context.Context, trackID string, data []byte) error
}

// PageItem pairs a result token with its descriptor.
type PageItem struct {
	Token string
	Track model.CatalogTrack
}

// PageResult is one page of search results in catalog-ranked order.
type PageResult struct {
	Query       string
	QueryKey    string // registry key for pagination callbacks
	Page        int
	Items       []PageItem
	HasPrevious bool
	// HasNext is a heuristic: a full page assumes more may exist. It can
	// be wrong at an exact page boundary; the extra click then lands on
	// an empty page, which the rendering layer shows as a notice.
	HasNext bool
}

// Empty reports a valid zero-match outcome.
func (p *PageResult) Empty() bool {
	return p == nil || len(p.Items) == 0
}

// MediaBundle is a fully materialized track ready to send.
type MediaBundle struct {
	Audio     []byte
	Title     string
	Performer string
	Duration  int // seconds
	Thumbnail []byte // nil when absent or its download failed
}

// Session orchestrates search, result caching, token resolution and media
// materialization. One Session is shared by all interactions; every method
// is safe for concurrent use.
type Session struct {
	catalog    Catalog
	tracks     cache.TrackCache
	queries    cache.QueryRegistry
	media      MediaCache // optional
	downloader *http.Client
	pageSize   int
}

// NewSession wires a session flow. media may be nil.
func NewSession(catalog Catalog, tracks cache.TrackCache, queries cache.QueryRegistry, media MediaCache, pageSize int, downloadTimeout time.Duration) *Session {
	if pageSize <= 0 {
		pageSize = 6
	}
	if downloadTimeout <= 0 {
		downloadTimeout = 60 * time.Second
	}
	return &Session{
		catalog: catalog,
		tracks:  tracks,
		queries: queries,
		media:   media,
		downloader: &http.Client{
			Timeout: downloadTimeout,
		},
		pageSize: pageSize,
	}
}

// Search issues a catalog query for the given page, caches every returned
// descriptor under its token and registers the query for pagination. A page
// with no items is a valid empty result, not an error.
func (s *Session) Search(ctx context.Context, query string, page int) (*PageResult, error) {
	if page < 0 {
		page = 0
	}

	results, err := s.catalog.Search(ctx, query, s.pageSize, page*s.pageSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}

	result := &PageResult{
		Query:       query,
		Page:        page,
		HasPrevious: page > 0,
		HasNext:     len(results) >= s.pageSize,
	}
	if len(results) == 0 {
		return result, nil
	}

	key, err := s.queries.Register(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	result.QueryKey = key

	for i := range results {
		track := results[i]
		token := s.tokenFor(&track)
		if err := s.tracks.Put(ctx, token, &track); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
		}
		result.Items = append(result.Items, PageItem{Token: token, Track: track})
	}

	logger.Info("search page served",
		logger.String("query", query),
		logger.Int("page", page),
		logger.Int("results", len(result.Items)))

	return result, nil
}

// Paginate re-queries the catalog at page+delta, flooring the page index at
// zero. The query text is looked up by its registry key; a stale key maps to
// ErrUnknownToken so the caller can ask the user to search again.
func (s *Session) Paginate(ctx context.Context, queryKey string, page, delta int) (*PageResult, error) {
	query, err := s.queries.Lookup(ctx, queryKey)
	if err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, fmt.Errorf("%w: query key %s", ErrUnknownToken, queryKey)
		}
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}

	next := page + delta
	if next < 0 {
		next = 0
	}
	return s.Search(ctx, query, next)
}

// Resolve maps a result token back to its descriptor. When the cache entry
// is gone (restart, expiry) and the token itself is a catalog id, the track
// is re-fetched from the catalog instead of failing the interaction.
func (s *Session) Resolve(ctx context.Context, token string) (*model.CatalogTrack, error) {
	track, err := s.tracks.Get(ctx, token)
	if err == nil {
		return track, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}

	if !looksLikeCatalogID(token) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownToken, token)
	}

	logger.Info("token not cached, falling back to catalog lookup", logger.String("token", token))
	track, err = s.catalog.TrackByID(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	if track == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownToken, token)
	}

	// Re-populate for the next click on the same keyboard.
	if err := s.tracks.Put(ctx, token, track); err != nil {
		logger.Warn("failed to re-cache resolved track", logger.ErrorField(err))
	}
	return track, nil
}

// Materialize downloads the track's media bytes, plus its thumbnail when one
// exists. Exactly one attempt per call; a thumbnail failure downgrades to no
// thumbnail and never aborts the primary download.
func (s *Session) Materialize(ctx context.Context, track *model.CatalogTrack) (*MediaBundle, error) {
	bundle := &MediaBundle{
		Title:     track.Title,
		Performer: track.Artist,
		Duration:  track.Duration,
	}

	audio, cached := s.cachedMedia(ctx, track.ID)
	if !cached {
		var err error
		audio, err = s.download(ctx, track.MediaURL)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDownloadFailed, err)
		}
		s.storeMedia(ctx, track.ID, audio)
	}
	bundle.Audio = audio

	if track.ThumbURL != "" {
		thumb, err := s.download(ctx, track.ThumbURL)
		if err != nil {
			logger.Warn("thumbnail download failed",
				logger.String("track", track.ID),
				logger.ErrorField(err))
		} else {
			bundle.Thumbnail = thumb
		}
	}

	return bundle, nil
}

// download fetches a URL, enforcing a 2xx response.
func (s *Session) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create download request: %w", err)
	}
	resp, err := s.downloader.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("download returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read download body: %w", err)
	}
	return data, nil
}

func (s *Session) cachedMedia(ctx context.Context, trackID string) ([]byte, bool) {
	if s.media == nil {
		return nil, false
	}
	data, err := s.media.Get(ctx, trackID)
	if err != nil {
		logger.Warn("media cache read failed", logger.String("track", trackID), logger.ErrorField(err))
		return nil, false
	}
	if data == nil {
		return nil, false
	}
	logger.Debug("media cache hit", logger.String("track", trackID), logger.Int("bytes", len(data)))
	return data, true
}

func (s *Session) storeMedia(ctx context.Context, trackID string, data []byte) {
	if s.media == nil {
		return
	}
	if err := s.media.Put(ctx, trackID, data); err != nil {
		logger.Warn("media cache write failed", logger.String("track", trackID), logger.ErrorField(err))
	}
}

// tokenFor derives the result token: the catalog id itself when it fits the
// callback budget, otherwise a generated surrogate. The budget is checked
// against the widest encoder, since the same token later travels in the
// collection payloads too.
func (s *Session) tokenFor(track *model.CatalogTrack) string {
	id := track.ID
	if id != "" && !strings.Contains(id, ":") && fitsCallbackBudget(id) {
		return id
	}
	return "s" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// looksLikeCatalogID reports whether a token is a composite owner_item id
// rather than a surrogate, and so can be re-fetched after a restart.
func looksLikeCatalogID(token string) bool {
	if !strings.Contains(token, "_") {
		return false
	}
	for _, r := range token {
		if (r < '0' || r > '9') && r != '_' && r != '-' {
			return false
		}
	}
	return true
}
