// Package schema publishes JSON Schemas for the documents the engine emits.
package schema

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/invopop/jsonschema"

	"github.com/prasanthkuna/vedaos/internal/birthtime"
	"github.com/prasanthkuna/vedaos/internal/dasha"
	"github.com/prasanthkuna/vedaos/internal/golden"
	"github.com/prasanthkuna/vedaos/internal/natal"
	"github.com/prasanthkuna/vedaos/internal/phase"
	"github.com/prasanthkuna/vedaos/internal/profile"
	"github.com/prasanthkuna/vedaos/internal/windows"
)

var documents = map[string]func() *jsonschema.Schema{
	"natal":         generate[natal.Core],
	"atmakaraka":    generate[natal.Primer],
	"dasha":         generate[[]dasha.Interval],
	"journey":       generate[phase.Journey],
	"risk":          generate[birthtime.RiskAssessment],
	"rectification": generate[birthtime.Rectification],
	"weekly":        generate[windows.Set],
	"monthly":       generate[windows.Monthly],
	"profile":       generate[profile.Profile],
	"golden":        generate[golden.Fixture],
}

// Names lists the documents with a published schema, sorted.
func Names() []string {
	out := make([]string, 0, len(documents))
	for name := range documents {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// For returns the schema of the named document.
func For(name string) (*jsonschema.Schema, error) {
	gen, ok := documents[name]
	if !ok {
		return nil, fmt.Errorf("no schema named %q", name)
	}
	return gen(), nil
}

// JSON renders the named schema as indented JSON.
func JSON(name string) ([]byte, error) {
	s, err := For(name)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(s, "", "  ")
}

func generate[T any]() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties:  false,
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
	}
	var v T
	return reflector.Reflect(v)
}
