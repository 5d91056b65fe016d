package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/vidnavigator/vidnav/internal/config/rules"
)

//go:embed schemas/config.schema.json
var schemaJSON []byte

const schemaURL = "https://vidnavigator.com/schemas/vidnav-config.schema.json"

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

func configSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft7
		if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
			compileErr = fmt.Errorf("failed to add schema resource: %w", err)
			return
		}
		compiledSchema, compileErr = compiler.Compile(schemaURL)
		if compileErr != nil {
			compileErr = fmt.Errorf("failed to compile schema: %w", compileErr)
		}
	})
	return compiledSchema, compileErr
}

// validateJSONSchema validates the raw JSON configuration against the JSON schema
func validateJSONSchema(data []byte) error {
	schema, err := configSchema()
	if err != nil {
		return err
	}

	var configObj any
	if err := json.Unmarshal(data, &configObj); err != nil {
		return fmt.Errorf("failed to parse configuration JSON: %w", err)
	}

	if err := schema.Validate(configObj); err != nil {
		return formatSchemaError(err)
	}
	return nil
}

// formatSchemaError formats JSON schema validation errors to be user-friendly
func formatSchemaError(err error) error {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return fmt.Errorf("configuration validation error: %s", err.Error())
	}

	var sb strings.Builder
	sb.WriteString("Configuration validation error:\n\n")
	formatValidationErrorRecursive(ve, &sb, 0)
	rules.AppendConfigDocsFooter(&sb)
	return fmt.Errorf("%s", sb.String())
}

// formatValidationErrorRecursive recursively formats validation errors with proper indentation
func formatValidationErrorRecursive(ve *jsonschema.ValidationError, sb *strings.Builder, depth int) {
	indent := strings.Repeat("  ", depth)

	location := ve.InstanceLocation
	if location == "" {
		location = "<root>"
	}
	sb.WriteString(fmt.Sprintf("%sLocation: %s\n", indent, location))
	sb.WriteString(fmt.Sprintf("%sError: %s\n", indent, ve.Message))
	if hint := errorHint(ve.Message); hint != "" {
		sb.WriteString(fmt.Sprintf("%sDetails: %s\n", indent, hint))
	}

	for _, cause := range ve.Causes {
		formatValidationErrorRecursive(cause, sb, depth+1)
	}
}

func errorHint(message string) string {
	switch {
	case strings.Contains(message, "additionalProperties"):
		return "Unknown configuration key. Valid sections are [credentials], [http] and [server]."
	case strings.Contains(message, "does not match pattern"):
		return "base_url must start with http:// or https://"
	case strings.Contains(message, "must be >="):
		return "Negative values are not allowed here."
	case strings.Contains(message, "expected integer"):
		return "Use a whole number of seconds."
	default:
		return ""
	}
}
