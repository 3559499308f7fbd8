package geo

import (
	"bytes"
	"fmt"
	"net/url"
	"strconv"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// DefaultEmbedURL is the map tile service used for previews.
const DefaultEmbedURL = "https://maps.google.com/maps"

// MapPreview builds read-only embedded map previews.
type MapPreview struct {
	EmbedURL string
	Zoom     int
}

// URL returns the iframe source for a coordinate pair. ok is false until
// both coordinates are present.
func (m MapPreview) URL(latitude, longitude string) (string, bool) {
	if latitude == "" || longitude == "" {
		return "", false
	}
	base := m.EmbedURL
	if base == "" {
		base = DefaultEmbedURL
	}
	zoom := m.Zoom
	if zoom <= 0 {
		zoom = 15
	}
	return fmt.Sprintf("%s?q=%s,%s&z=%s&output=embed",
		base, url.QueryEscape(latitude), url.QueryEscape(longitude), strconv.Itoa(zoom)), true
}

// IFrame renders the preview as an HTML snippet.
func (m MapPreview) IFrame(latitude, longitude string) (string, bool) {
	src, ok := m.URL(latitude, longitude)
	if !ok {
		return "", false
	}
	node := &html.Node{
		Type:     html.ElementNode,
		Data:     atom.Iframe.String(),
		DataAtom: atom.Iframe,
		Attr: []html.Attribute{
			{Key: "title", Val: "Location preview"},
			{Key: "src", Val: src},
			{Key: "width", Val: "100%"},
			{Key: "height", Val: "250"},
			{Key: "style", Val: "border:0"},
			{Key: "loading", Val: "lazy"},
		},
	}
	var buf bytes.Buffer
	if err := html.Render(&buf, node); err != nil {
		return "", false
	}
	return buf.String(), true
}
