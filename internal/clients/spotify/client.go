// Package spotify searches the Spotify Web API catalog.
package spotify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/MrSnakeDoc/harunode/internal/domain"
	"github.com/MrSnakeDoc/harunode/internal/logger"
	"github.com/MrSnakeDoc/harunode/internal/utils"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	DefaultAPIURL   = "https://api.spotify.com/v1"
	DefaultTokenURL = "https://accounts.spotify.com/api/token"

	// tokenEarlyExpiry refreshes the access token before Spotify rejects it.
	tokenEarlyExpiry = time.Minute
	maxLimit         = 50
	maxErrorBody     = 512
)

// ErrNotConfigured is returned by Disabled.
var ErrNotConfigured = errors.New("spotify: client credentials not configured")

// Config holds the client settings.
type Config struct {
	ClientID     string
	ClientSecret string
	Market       string
	Timeout      time.Duration

	// APIURL and TokenURL default to the public endpoints.
	APIURL   string
	TokenURL string
}

// Client implements domain.CatalogSearcher.
// The access token is cached on the client and refreshed one minute early.
type Client struct {
	http   *http.Client
	tokens oauth2.TokenSource
	apiURL string
	market string
	log    logger.Logger
}

// New builds a client using the client-credentials grant.
func New(cfg Config, log logger.Logger) (*Client, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, ErrNotConfigured
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	if cfg.TokenURL == "" {
		cfg.TokenURL = DefaultTokenURL
	}

	httpClient := &http.Client{
		Timeout: cfg.Timeout,
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   cfg.Timeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout: cfg.Timeout,
			MaxIdleConns:        10,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	cc := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL,
		AuthStyle:    oauth2.AuthStyleInHeader,
	}
	tokenCtx := context.WithValue(context.Background(), oauth2.HTTPClient, httpClient)
	fetch := tokenFunc(func() (*oauth2.Token, error) {
		tok, err := cc.Token(tokenCtx)
		if err != nil {
			return nil, fmt.Errorf("failed to obtain spotify token: %w", err)
		}
		log.Debug("spotify token refreshed", logger.Time("expiry", tok.Expiry))
		return tok, nil
	})

	return &Client{
		http:   httpClient,
		tokens: oauth2.ReuseTokenSourceWithExpiry(nil, fetch, tokenEarlyExpiry),
		apiURL: strings.TrimRight(cfg.APIURL, "/"),
		market: cfg.Market,
		log:    log,
	}, nil
}

type tokenFunc func() (*oauth2.Token, error)

func (f tokenFunc) Token() (*oauth2.Token, error) { return f() }

type searchResponse struct {
	Tracks struct {
		Items []trackObject `json:"items"`
	} `json:"tracks"`
}

type trackObject struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	PreviewURL string `json:"preview_url"`
	Artists    []struct {
		Name string `json:"name"`
	} `json:"artists"`
	Album struct {
		Name   string `json:"name"`
		Images []struct {
			URL string `json:"url"`
		} `json:"images"`
	} `json:"album"`
	ExternalURLs struct {
		Spotify string `json:"spotify"`
	} `json:"external_urls"`
}

// Search queries the catalog. Only track searches are supported.
func (c *Client) Search(ctx context.Context, req domain.SearchRequest) ([]domain.CatalogItem, error) {
	if req.Kind == "" {
		req.Kind = domain.SearchKindTrack
	}
	if req.Kind != domain.SearchKindTrack {
		return nil, fmt.Errorf("spotify: unsupported search kind %q", req.Kind)
	}
	if req.Limit <= 0 || req.Limit > maxLimit {
		req.Limit = maxLimit
	}
	if req.Offset < 0 {
		req.Offset = 0
	}

	tok, err := c.tokens.Token()
	if err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("q", req.Query)
	q.Set("type", string(req.Kind))
	q.Set("limit", strconv.Itoa(req.Limit))
	q.Set("offset", strconv.Itoa(req.Offset))
	if c.market != "" {
		q.Set("market", c.market)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+"/search?"+q.Encode(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	tok.SetAuthHeader(httpReq)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("spotify search failed: %w", err)
	}
	defer utils.Close(resp.Body)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("spotify search returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode spotify response: %w", err)
	}

	items := make([]domain.CatalogItem, 0, len(payload.Tracks.Items))
	for _, t := range payload.Tracks.Items {
		if t.ID == "" {
			continue
		}
		items = append(items, toCatalogItem(t))
	}

	c.log.Debug("spotify search",
		logger.String("query", req.Query),
		logger.Int("offset", req.Offset),
		logger.Int("results", len(items)))
	return items, nil
}

func toCatalogItem(t trackObject) domain.CatalogItem {
	artists := make([]string, 0, len(t.Artists))
	for _, a := range t.Artists {
		artists = append(artists, a.Name)
	}
	item := domain.CatalogItem{
		ID:          t.ID,
		Name:        t.Name,
		Artist:      strings.Join(artists, ", "),
		Album:       t.Album.Name,
		PreviewURL:  t.PreviewURL,
		ExternalURL: t.ExternalURLs.Spotify,
	}
	if len(t.Album.Images) > 0 {
		item.ArtworkURL = t.Album.Images[0].URL
	}
	return item
}

// Disabled is the searcher used when no credentials are configured.
type Disabled struct{}

// Search always fails with ErrNotConfigured.
func (Disabled) Search(context.Context, domain.SearchRequest) ([]domain.CatalogItem, error) {
	return nil, ErrNotConfigured
}
