package tool

import (
	"fmt"

	"github.com/sndraw/bookroom-sub000/internal/logging"
)

// ValidateSchema checks that a tool's Parameters block is a well-formed
// JSON-schema object the model can act on: object type, non-empty
// properties, and every required name present in properties.
func ValidateSchema(t Tool) error {
	params := t.Parameters()
	if params == nil {
		return fmt.Errorf("tool %s: missing parameters block", t.Name())
	}
	if typ, _ := params["type"].(string); typ != "object" {
		return fmt.Errorf("tool %s: parameters.type must be \"object\"", t.Name())
	}
	props, _ := params["properties"].(map[string]any)
	if len(props) == 0 {
		return fmt.Errorf("tool %s: parameters.properties missing or empty", t.Name())
	}
	required, ok := params["required"]
	if !ok {
		return nil
	}
	for _, r := range asStrings(required) {
		if r == "" || props[r] == nil {
			return fmt.Errorf("tool %s: required property %q not in properties", t.Name(), r)
		}
	}
	return nil
}

// Validate runs ValidateSchema over every registered tool, logging each
// offender, and fails if any schema is invalid.
func (r *Registry) Validate() error {
	hasErr := false
	for _, t := range r.List() {
		if err := ValidateSchema(t); err != nil {
			logging.Logger.Error().Err(err).Str("module", "tool").
				Str("tool", t.Name()).Msg("invalid parameter schema")
			hasErr = true
		}
	}
	if hasErr {
		return fmt.Errorf("invalid tool schemas: see log for details")
	}
	return nil
}

func asStrings(v any) []string {
	switch vv := v.(type) {
	case []string:
		return vv
	case []any:
		out := make([]string, 0, len(vv))
		for _, e := range vv {
			s, _ := e.(string)
			out = append(out, s)
		}
		return out
	default:
		return nil
	}
}
