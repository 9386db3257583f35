package render

import (
	"encoding/json"
	"io"
)

type JSONRenderer struct{}

func NewJSONRenderer() *JSONRenderer { return &JSONRenderer{} }

// Render writes doc as a single JSON document. Keys are sorted; non-ASCII
// text and URLs are written as is.
func (r *JSONRenderer) Render(w io.Writer, doc any, opts Options) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if opts.Pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(doc)
}
