package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/komsit37/finx/pkg/finx/types"
)

// symsRenderer prints the symbols of a document in a single comma-separated
// line. Entries carrying an error are skipped.
type symsRenderer struct{}

func NewSymsRenderer() Renderer {
	return symsRenderer{}
}

func (symsRenderer) Render(w io.Writer, doc any, _ Options) error {
	var entries []types.Payload
	switch d := doc.(type) {
	case []types.Payload:
		entries = d
	case types.Payload:
		entries = []types.Payload{d}
	}
	symbols := make([]string, 0, len(entries))
	for _, e := range entries {
		if _, failed := e["error"]; failed {
			continue
		}
		sym, _ := e["symbol"].(string)
		if sym = strings.TrimSpace(sym); sym != "" {
			symbols = append(symbols, sym)
		}
	}
	_, err := fmt.Fprintln(w, strings.Join(symbols, ","))
	return err
}
