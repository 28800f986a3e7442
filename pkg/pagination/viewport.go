package pagination

import (
	"net/http"
	"strconv"
	"strings"
)

// SmallScreenMaxWidth is the widest viewport, in CSS pixels, that gets the stacked layout.
const SmallScreenMaxWidth = 400

// Client hint headers carrying the layout viewport width.
const (
	HeaderViewportWidth       = "Sec-CH-Viewport-Width"
	HeaderViewportWidthLegacy = "Viewport-Width"
)

// Viewport answers width queries about the surface the paginator is rendered on.
type Viewport interface {
	// MaxWidth reports whether the viewport is at most px pixels wide,
	// mirroring a (max-width: px) media query.
	MaxWidth(px int) bool
}

// ViewportFunc adapts a function to the Viewport interface.
type ViewportFunc func(px int) bool

// MaxWidth calls f(px).
func (f ViewportFunc) MaxWidth(px int) bool {
	return f(px)
}

// FixedWidth is a viewport of known width. A non-positive width is unknown and
// never matches a max-width query.
type FixedWidth int

// MaxWidth implements Viewport.
func (w FixedWidth) MaxWidth(px int) bool {
	return w > 0 && int(w) <= px
}

// RequestViewport returns the viewport described by the client hints of r.
// Requests without a usable hint are treated as wide screens.
func RequestViewport(r *http.Request) Viewport {
	if r == nil {
		return FixedWidth(0)
	}
	for _, h := range []string{HeaderViewportWidth, HeaderViewportWidthLegacy} {
		v := strings.TrimSpace(r.Header.Get(h))
		if v == "" {
			continue
		}
		if w, err := strconv.Atoi(v); err == nil && w > 0 {
			return FixedWidth(w)
		}
	}
	return FixedWidth(0)
}

// AcceptClientHints is the Accept-CH value a host page sends so browsers
// include the viewport hints on later requests.
func AcceptClientHints() string {
	return HeaderViewportWidth + ", " + HeaderViewportWidthLegacy
}
