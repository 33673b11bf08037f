package api

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed dashboard.schema.json
var dashboardSchemaJSON []byte

const dashboardSchemaURL = "mem://teuxdeux/dashboard.schema.json"

func dashboardSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(dashboardSchemaURL, bytes.NewReader(dashboardSchemaJSON)); err != nil {
		return nil, fmt.Errorf("add dashboard schema: %w", err)
	}
	s, err := compiler.Compile(dashboardSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile dashboard schema: %w", err)
	}
	return s, nil
}

func validateDashboard(s *jsonschema.Schema, raw []byte) error {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("decode dashboard: %w", err)
	}
	if err := s.Validate(v); err != nil {
		return &Error{Message: "dashboard does not match the expected shape: " + err.Error()}
	}
	return nil
}
