package flow

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"MuzBot/cache"
	"MuzBot/model"
)

// fakeCatalog serves canned pages and records the calls it sees.
type fakeCatalog struct {
	tracks      []model.CatalogTrack
	searchErr   error
	lastOffset  int
	searchCalls int
	byID        map[string]*model.CatalogTrack
	lookupCalls int
}

func (f *fakeCatalog) Search(_ context.Context, _ string, limit, offset int) ([]model.CatalogTrack, error) {
	f.searchCalls++
	f.lastOffset = offset
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	if offset < 0 {
		return nil, fmt.Errorf("negative offset %d", offset)
	}
	if offset >= len(f.tracks) {
		return nil, nil
	}
	end := offset + limit
	if end > len(f.tracks) {
		end = len(f.tracks)
	}
	return f.tracks[offset:end], nil
}

func (f *fakeCatalog) TrackByID(_ context.Context, id string) (*model.CatalogTrack, error) {
	f.lookupCalls++
	if f.byID == nil {
		return nil, nil
	}
	return f.byID[id], nil
}

func catalogWithTracks(n int) *fakeCatalog {
	f := &fakeCatalog{}
	for i := 0; i < n; i++ {
		f.tracks = append(f.tracks, model.CatalogTrack{
			ID:       fmt.Sprintf("1_%d", i),
			Title:    fmt.Sprintf("Track %d", i),
			Artist:   "Artist",
			Duration: 180,
			MediaURL: "http://cdn/" + fmt.Sprint(i),
		})
	}
	return f
}

func newTestSession(catalog Catalog) *Session {
	store := cache.NewMemoryStore(time.Minute, 1000)
	return NewSession(catalog, store, store, nil, 6, time.Second)
}

func TestSearchFirstFullPage(t *testing.T) {
	session := newTestSession(catalogWithTracks(6))

	page, err := session.Search(context.Background(), "imagine dragons", 0)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(page.Items) != 6 {
		t.Fatalf("expected 6 items, got %d", len(page.Items))
	}
	if page.HasPrevious {
		t.Fatalf("first page must not have previous")
	}
	if !page.HasNext {
		t.Fatalf("full page must report hasNext")
	}
	if page.QueryKey == "" {
		t.Fatalf("expected a registered query key")
	}
}

func TestSearchCachePopulationInvariant(t *testing.T) {
	session := newTestSession(catalogWithTracks(6))

	page, err := session.Search(context.Background(), "q", 0)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	// Every returned token resolves immediately after search.
	for _, item := range page.Items {
		track, err := session.Resolve(context.Background(), item.Token)
		if err != nil {
			t.Fatalf("resolve %q: %v", item.Token, err)
		}
		if track.ID != item.Track.ID {
			t.Fatalf("token %q resolved to wrong track %q", item.Token, track.ID)
		}
	}
}

func TestSearchPartialPageHasNoNext(t *testing.T) {
	session := newTestSession(catalogWithTracks(4))

	page, err := session.Search(context.Background(), "q", 0)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(page.Items) != 4 || page.HasNext {
		t.Fatalf("partial page should not report hasNext: %+v", page)
	}
}

func TestSearchEmptyResult(t *testing.T) {
	session := newTestSession(catalogWithTracks(0))

	page, err := session.Search(context.Background(), "nothing here", 0)
	if err != nil {
		t.Fatalf("empty result must not be an error: %v", err)
	}
	if !page.Empty() {
		t.Fatalf("expected empty page, got %d items", len(page.Items))
	}
}

func TestSearchCatalogFailure(t *testing.T) {
	session := newTestSession(&fakeCatalog{searchErr: errors.New("boom")})

	_, err := session.Search(context.Background(), "q", 0)
	if !errors.Is(err, ErrCatalogUnavailable) {
		t.Fatalf("expected ErrCatalogUnavailable, got %v", err)
	}
}

func TestPaginateFloorsAtZero(t *testing.T) {
	catalog := catalogWithTracks(6)
	session := newTestSession(catalog)

	page, err := session.Search(context.Background(), "q", 0)
	if err != nil {
		t.Fatalf("search: %v", err)
	}

	// Going back from page 0 must never issue a negative offset.
	page, err = session.Paginate(context.Background(), page.QueryKey, 0, -1)
	if err != nil {
		t.Fatalf("paginate: %v", err)
	}
	if catalog.lastOffset != 0 {
		t.Fatalf("expected offset 0, catalog saw %d", catalog.lastOffset)
	}
	if page.Page != 0 {
		t.Fatalf("expected page 0, got %d", page.Page)
	}
}

func TestPaginateForward(t *testing.T) {
	catalog := catalogWithTracks(10)
	session := newTestSession(catalog)

	first, err := session.Search(context.Background(), "q", 0)
	if err != nil {
		t.Fatalf("search: %v", err)
	}

	second, err := session.Paginate(context.Background(), first.QueryKey, 0, 1)
	if err != nil {
		t.Fatalf("paginate: %v", err)
	}
	if catalog.lastOffset != 6 {
		t.Fatalf("expected offset 6, catalog saw %d", catalog.lastOffset)
	}
	if len(second.Items) != 4 || !second.HasPrevious || second.HasNext {
		t.Fatalf("unexpected second page: %+v", second)
	}
}

func TestPaginateStaleQueryKey(t *testing.T) {
	session := newTestSession(catalogWithTracks(6))

	_, err := session.Paginate(context.Background(), "gone", 1, 1)
	if !errors.Is(err, ErrUnknownToken) {
		t.Fatalf("expected ErrUnknownToken for stale key, got %v", err)
	}
}

func TestResolveUnknownToken(t *testing.T) {
	session := newTestSession(&fakeCatalog{})

	_, err := session.Resolve(context.Background(), "sdeadbeef")
	if !errors.Is(err, ErrUnknownToken) {
		t.Fatalf("expected ErrUnknownToken, got %v", err)
	}
}

func TestResolveFallsBackToCatalogAfterRestart(t *testing.T) {
	// A cleared cache simulates a process restart; a catalog-id token is
	// re-fetched instead of failing the interaction.
	catalog := &fakeCatalog{byID: map[string]*model.CatalogTrack{
		"1_100": {ID: "1_100", Title: "Believer", Artist: "Imagine Dragons"},
	}}
	session := newTestSession(catalog)

	track, err := session.Resolve(context.Background(), "1_100")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if track.Title != "Believer" {
		t.Fatalf("unexpected track: %+v", track)
	}
	if catalog.lookupCalls != 1 {
		t.Fatalf("expected one catalog lookup, got %d", catalog.lookupCalls)
	}

	// The second resolve is served from the re-populated cache.
	if _, err := session.Resolve(context.Background(), "1_100"); err != nil {
		t.Fatalf("second resolve: %v", err)
	}
	if catalog.lookupCalls != 1 {
		t.Fatalf("expected cached resolve, catalog saw %d lookups", catalog.lookupCalls)
	}
}

func TestMaterializeThumbnailFailureIsNonFatal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/audio.mp3":
			w.Write([]byte("audio-bytes"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	session := newTestSession(&fakeCatalog{})
	track := &model.CatalogTrack{
		ID:       "1_100",
		Title:    "Believer",
		Artist:   "Imagine Dragons",
		Duration: 204,
		MediaURL: server.URL + "/audio.mp3",
		ThumbURL: server.URL + "/missing.jpg",
	}

	bundle, err := session.Materialize(context.Background(), track)
	if err != nil {
		t.Fatalf("materialize: %v", err)
	}
	if string(bundle.Audio) != "audio-bytes" {
		t.Fatalf("unexpected audio payload")
	}
	if bundle.Thumbnail != nil {
		t.Fatalf("expected no thumbnail after 404, got %d bytes", len(bundle.Thumbnail))
	}
	if bundle.Title != "Believer" || bundle.Performer != "Imagine Dragons" || bundle.Duration != 204 {
		t.Fatalf("unexpected metadata: %+v", bundle)
	}
}

func TestMaterializePrimaryFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	session := newTestSession(&fakeCatalog{})
	track := &model.CatalogTrack{ID: "1_100", MediaURL: server.URL + "/audio.mp3"}

	_, err := session.Materialize(context.Background(), track)
	if !errors.Is(err, ErrDownloadFailed) {
		t.Fatalf("expected ErrDownloadFailed, got %v", err)
	}
}

// fakeMedia is an in-memory MediaCache.
type fakeMedia struct {
	data map[string][]byte
	puts int
}

func (f *fakeMedia) Get(_ context.Context, trackID string) ([]byte, error) {
	return f.data[trackID], nil
}

func (f *fakeMedia) Put(_ context.Context, trackID string, data []byte) error {
	if f.data == nil {
		f.data = map[string][]byte{}
	}
	f.data[trackID] = data
	f.puts++
	return nil
}

func TestMaterializeUsesMediaCache(t *testing.T) {
	downloads := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		downloads++
		w.Write([]byte("audio-bytes"))
	}))
	defer server.Close()

	store := cache.NewMemoryStore(time.Minute, 1000)
	media := &fakeMedia{}
	session := NewSession(&fakeCatalog{}, store, store, media, 6, time.Second)
	track := &model.CatalogTrack{ID: "1_100", MediaURL: server.URL + "/audio.mp3"}

	if _, err := session.Materialize(context.Background(), track); err != nil {
		t.Fatalf("first materialize: %v", err)
	}
	if _, err := session.Materialize(context.Background(), track); err != nil {
		t.Fatalf("second materialize: %v", err)
	}

	if downloads != 1 {
		t.Fatalf("expected one CDN download, got %d", downloads)
	}
	if media.puts != 1 {
		t.Fatalf("expected one media cache write, got %d", media.puts)
	}
}

func TestTokenForLongIDUsesSurrogate(t *testing.T) {
	session := newTestSession(&fakeCatalog{})

	long := &model.CatalogTrack{ID: strings.Repeat("1", 100)}
	token := session.tokenFor(long)
	if token == long.ID {
		t.Fatalf("oversized id must not be used as token")
	}
	if len(EncodeDownload(token)) > maxCallbackData {
		t.Fatalf("surrogate token payload too long: %q", token)
	}

	short := &model.CatalogTrack{ID: "1_100"}
	if session.tokenFor(short) != "1_100" {
		t.Fatalf("short catalog id should be its own token")
	}
}

func TestTokenForBoundaryIDUsesSurrogate(t *testing.T) {
	session := newTestSession(&fakeCatalog{})

	// 55 chars: fits the download payload exactly, but not the wider
	// collection payloads that carry the same token later.
	boundary := &model.CatalogTrack{ID: strings.Repeat("1", 27) + "_" + strings.Repeat("2", 27)}
	if len(EncodeDownload(boundary.ID)) != maxCallbackData {
		t.Fatalf("boundary id no longer sits on the download limit, adjust the test")
	}

	token := session.tokenFor(boundary)
	if token == boundary.ID {
		t.Fatalf("id fitting only the shortest payload form must not be used as token")
	}
	for _, data := range []string{
		EncodeDownload(token),
		EncodeAlbumMenu(token),
		EncodeAlbumAdd(math.MaxInt64, token),
	} {
		if len(data) > maxCallbackData {
			t.Fatalf("payload %q is %d bytes, over the %d-byte budget", data, len(data), maxCallbackData)
		}
	}
}
