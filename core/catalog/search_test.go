package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestSearchParsesTracks(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.RequestURI()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"code":200,"tracks":[
			{"id":"1_100","title":"Believer","artist":"Imagine Dragons","duration":204,"url":"http://cdn/1.mp3","thumb_url":"http://cdn/1.jpg"},
			{"owner_id":2,"item_id":200,"title":"Thunder","artist":"Imagine Dragons","duration":187,"url":"http://cdn/2.mp3"}
		]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "", time.Second)
	tracks, err := client.Search(context.Background(), "imagine dragons", 6, 12)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(tracks) != 2 {
		t.Fatalf("expected 2 tracks, got %d", len(tracks))
	}
	if tracks[0].ID != "1_100" || tracks[0].MediaURL != "http://cdn/1.mp3" {
		t.Fatalf("unexpected first track: %+v", tracks[0])
	}
	// Composite id is derived when the API only sends owner/item parts.
	if tracks[1].ID != "2_200" {
		t.Fatalf("expected derived composite id, got %q", tracks[1].ID)
	}
	if tracks[1].ThumbURL != "" {
		t.Fatalf("expected empty thumb url, got %q", tracks[1].ThumbURL)
	}
	if gotPath != "/audio/search?q=imagine+dragons&count=6&offset=12" {
		t.Fatalf("unexpected request path: %s", gotPath)
	}
}

func TestSearchRejectsNegativeOffset(t *testing.T) {
	client := NewClient("http://unused", "", time.Second)
	if _, err := client.Search(context.Background(), "q", 6, -6); err == nil {
		t.Fatalf("expected error for negative offset")
	}
}

func TestSearchAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":500,"msg":"upstream down"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "", time.Second)
	if _, err := client.Search(context.Background(), "q", 6, 0); err == nil {
		t.Fatalf("expected error for API code != 200")
	}
}

func TestSearchHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL, "", time.Second)
	if _, err := client.Search(context.Background(), "q", 6, 0); err == nil {
		t.Fatalf("expected error for non-200 status")
	}
}

func TestTrackByID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("id") != "1_100" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(`{"code":200,"track":{"id":"1_100","title":"Believer","artist":"Imagine Dragons","duration":204,"url":"http://cdn/1.mp3"}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "", time.Second)

	track, err := client.TrackByID(context.Background(), "1_100")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if track == nil || track.Title != "Believer" {
		t.Fatalf("unexpected track: %+v", track)
	}

	missing, err := client.TrackByID(context.Background(), "9_999")
	if err != nil {
		t.Fatalf("lookup missing: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for unknown id, got %+v", missing)
	}
}

func TestAuthHeaderSet(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"code":200,"tracks":[]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret", time.Second)
	if _, err := client.Search(context.Background(), "q", 6, 0); err != nil {
		t.Fatalf("search: %v", err)
	}
	if gotAuth != "Bearer secret" {
		t.Fatalf("expected bearer token header, got %q", gotAuth)
	}
}
