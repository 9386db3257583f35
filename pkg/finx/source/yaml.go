package source

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/komsit37/finx/pkg/finx/types"
)

// YAMLSource loads indices from a YAML file.
type YAMLSource struct {
	Path string
}

// Load accepts two shapes:
//  1. a top-level list: "- {name: NIFTY 50, symbol: ^NSEI}"
//  2. a map with an indices key: "indices: [...]"
func (s YAMLSource) Load(_ context.Context) ([]types.Index, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.Path, err)
	}
	list, err := parseYAML(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.Path, err)
	}
	return list, nil
}

func parseYAML(data []byte) ([]types.Index, error) {
	var list []types.Index
	if err := yaml.Unmarshal(data, &list); err != nil {
		var alt struct {
			Indices []types.Index `yaml:"indices"`
		}
		if err2 := yaml.Unmarshal(data, &alt); err2 != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
		list = alt.Indices
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("invalid yaml: no indices")
	}

	v := validator.New()
	seen := map[string]struct{}{}
	for i := range list {
		list[i].Name = strings.TrimSpace(list[i].Name)
		list[i].Symbol = strings.TrimSpace(list[i].Symbol)
		if err := v.Struct(list[i]); err != nil {
			return nil, fmt.Errorf("index %d: %w", i+1, err)
		}
		key := strings.ToUpper(list[i].Symbol)
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("index %d: duplicate symbol %s", i+1, list[i].Symbol)
		}
		seen[key] = struct{}{}
	}
	return list, nil
}
