package domain

import "context"

// CatalogItem is one music catalog result.
type CatalogItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Artist      string `json:"artist"`
	Album       string `json:"album,omitempty"`
	ArtworkURL  string `json:"artwork_url,omitempty"`
	PreviewURL  string `json:"preview_url,omitempty"`
	ExternalURL string `json:"external_url,omitempty"`
}

// SearchKind is the kind of catalog object searched for.
type SearchKind string

const SearchKindTrack SearchKind = "track"

// SearchRequest is a catalog search query.
type SearchRequest struct {
	Query  string
	Kind   SearchKind
	Limit  int
	Offset int
}

// CatalogSearcher is the music catalog collaborator.
type CatalogSearcher interface {
	Search(ctx context.Context, req SearchRequest) ([]CatalogItem, error)
}

// TextGenerator is the generative-text collaborator.
// Implementations must return an error rather than block past ctx.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
