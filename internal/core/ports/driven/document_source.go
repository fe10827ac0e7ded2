package driven

import (
	"context"

	"github.com/custodia-labs/nineslice-cli/internal/core/domain"
)

// DocumentSource retrieves design documents and their rendered images.
// The Figma REST client implements it.
type DocumentSource interface {
	// FetchDocument retrieves the document tree for a file.
	// Fails with an error wrapping domain.ErrTransport or domain.ErrParse.
	FetchDocument(ctx context.Context, fileKey string, token domain.AccessToken) (domain.Node, error)

	// FetchImageURLs renders the given node ids as PNG at scale and returns
	// a map from node id to image URL, in one batched request. Ids the API
	// could not render are absent from the map.
	FetchImageURLs(
		ctx context.Context, fileKey string, token domain.AccessToken, ids []string, scale float64,
	) (map[string]string, error)
}

// ImageFetcher downloads rendered image bytes.
type ImageFetcher interface {
	// FetchImage downloads the image at url.
	// Fails with an error wrapping domain.ErrTransport.
	FetchImage(ctx context.Context, url string) ([]byte, error)
}
