// Package figma implements the document source for the Figma REST API.
//
// The client fetches a file's document tree and batch-renders nodes to PNG,
// then downloads the rendered images from the URLs the API hands back.
//
// # Architecture
//
// The client satisfies both [driven.DocumentSource] and [driven.ImageFetcher].
// It comprises the following components:
//
//   - Client: handles Figma API communication with rate limiting
//   - RateLimiter: proactive token bucket plus Retry-After handling
//   - wire types: JSON shapes of the files and images endpoints and their
//     conversion into [domain.Node]
//
// # Authentication
//
// Two token types are supported:
//
//   - Personal access tokens, created under Settings > Security in Figma,
//     sent in the X-Figma-Token header.
//
//   - OAuth access tokens, obtained through a Figma OAuth app, sent as a
//     bearer token by an oauth2 HTTP client.
//
// Rendered image URLs are pre-signed and fetched without credentials.
//
// # Errors
//
// Non-2xx responses become *APIError and 429 responses *RateLimitError; both
// unwrap to [domain.ErrTransport]. Undecodable bodies wrap [domain.ErrParse].
package figma
