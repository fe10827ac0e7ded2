// Package assets holds what the asset sinks share: the PNG check, the
// sprite metadata written next to each image, and MultiSink, which fans a
// request out to the local sink and an optional mirror.
package assets
