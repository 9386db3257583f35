package render

import (
	"fmt"
	"io"
	"strings"
)

// Renderer writes one report document to an output writer. doc is a
// types.Payload or, for index snapshots, a []types.Payload.
type Renderer interface {
	Render(w io.Writer, doc any, opts Options) error
}

type Options struct {
	Pretty      bool
	Color       bool
	MaxColWidth int
}

// Formats lists the names accepted by For.
var Formats = []string{"json", "yaml", "table", "syms"}

// For returns the renderer for format.
func For(format string) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "json":
		return NewJSONRenderer(), nil
	case "yaml", "yml":
		return NewYAMLRenderer(), nil
	case "table":
		return NewTableRenderer(), nil
	case "syms":
		return NewSymsRenderer(), nil
	default:
		return nil, fmt.Errorf("unknown format %q (available: %s)", format, strings.Join(Formats, ", "))
	}
}
