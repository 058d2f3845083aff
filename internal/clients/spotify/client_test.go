package spotify

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/MrSnakeDoc/harunode/internal/domain"
	"github.com/MrSnakeDoc/harunode/internal/logger"
)

const searchBody = `{
  "tracks": {
    "items": [
      {
        "id": "t1",
        "name": "Song One",
        "preview_url": "https://p/1",
        "artists": [{"name": "A"}, {"name": "B"}],
        "album": {"name": "Album", "images": [{"url": "https://img/1"}]},
        "external_urls": {"spotify": "https://open/1"}
      },
      {"id": "", "name": "skipped"},
      {"id": "t2", "name": "Song Two", "artists": [], "album": {"name": "Other", "images": []}}
    ]
  }
}`

func newTestServer(t *testing.T, tokenCalls *int32) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(tokenCalls, 1)
		if user, pass, ok := r.BasicAuth(); !ok || user != "id" || pass != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/v1/search", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		q := r.URL.Query()
		if q.Get("type") != "track" || q.Get("limit") != "30" || q.Get("offset") != "3" || q.Get("market") != "KR" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(r.URL.RawQuery))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(searchBody))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestSearch(t *testing.T) {
	var tokenCalls int32
	srv := newTestServer(t, &tokenCalls)

	c, err := New(Config{
		ClientID:     "id",
		ClientSecret: "secret",
		Market:       "KR",
		APIURL:       srv.URL + "/v1",
		TokenURL:     srv.URL + "/token",
	}, logger.Nop())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	req := domain.SearchRequest{Query: `chill track:"rain"`, Kind: domain.SearchKindTrack, Limit: 30, Offset: 3}
	items, err := c.Search(context.Background(), req)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}

	first := items[0]
	if first.ID != "t1" || first.Artist != "A, B" || first.Album != "Album" ||
		first.ArtworkURL != "https://img/1" || first.PreviewURL != "https://p/1" || first.ExternalURL != "https://open/1" {
		t.Errorf("first item = %+v", first)
	}
	if items[1].ArtworkURL != "" {
		t.Errorf("second item artwork = %q, want empty", items[1].ArtworkURL)
	}

	if _, err := c.Search(context.Background(), req); err != nil {
		t.Fatalf("second Search failed: %v", err)
	}
	if n := atomic.LoadInt32(&tokenCalls); n != 1 {
		t.Errorf("token fetched %d times, want 1", n)
	}
}

func TestSearchBadCredentials(t *testing.T) {
	var tokenCalls int32
	srv := newTestServer(t, &tokenCalls)

	c, err := New(Config{
		ClientID:     "id",
		ClientSecret: "wrong",
		APIURL:       srv.URL + "/v1",
		TokenURL:     srv.URL + "/token",
	}, logger.Nop())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if _, err := c.Search(context.Background(), domain.SearchRequest{Query: "x"}); err == nil {
		t.Fatal("expected token error")
	}
}

func TestNewRequiresCredentials(t *testing.T) {
	if _, err := New(Config{ClientID: "id"}, logger.Nop()); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("New() error = %v, want ErrNotConfigured", err)
	}
	if _, err := (Disabled{}).Search(context.Background(), domain.SearchRequest{}); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("Disabled.Search error = %v", err)
	}
}

func TestSearchRejectsOtherKinds(t *testing.T) {
	c := &Client{log: logger.Nop()}
	if _, err := c.Search(context.Background(), domain.SearchRequest{Kind: "album"}); err == nil {
		t.Error("album search should be rejected")
	}
}
