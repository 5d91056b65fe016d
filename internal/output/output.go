// Package output renders output records for the command line: an optional
// jq filter, then JSON that is indented for terminals and compact for pipes.
package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/itchyny/gojq"

	"github.com/vidnavigator/vidnav/internal/logger"
)

var logOutput = logger.New("output:output")

// Filter is a compiled jq expression
type Filter struct {
	expr string
	code *gojq.Code
}

// ParseFilter compiles a jq expression. An empty expression yields a nil
// Filter, which passes values through.
func ParseFilter(expr string) (*Filter, error) {
	if expr == "" {
		return nil, nil
	}
	query, err := gojq.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse jq filter %q: %w", expr, err)
	}
	code, err := gojq.Compile(query)
	if err != nil {
		return nil, fmt.Errorf("failed to compile jq filter %q: %w", expr, err)
	}
	logOutput.Printf("Compiled jq filter: %s", expr)
	return &Filter{expr: expr, code: code}, nil
}

// Apply runs the filter and collects every result
func (f *Filter) Apply(v any) ([]any, error) {
	if f == nil {
		return []any{v}, nil
	}
	normalized, err := toJQValue(v)
	if err != nil {
		return nil, err
	}

	var results []any
	iter := f.code.Run(normalized)
	for {
		out, ok := iter.Next()
		if !ok {
			break
		}
		if err, ok := out.(error); ok {
			if haltErr, ok := err.(*gojq.HaltError); ok && haltErr.Value() == nil {
				break
			}
			return nil, fmt.Errorf("jq filter %q failed: %w", f.expr, err)
		}
		results = append(results, out)
	}
	return results, nil
}

// toJQValue converts v into the plain map/slice/float64 shapes gojq accepts.
func toJQValue(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode value for jq: %w", err)
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to decode value for jq: %w", err)
	}
	return out, nil
}

// Printer writes values as JSON, one document per value
type Printer struct {
	w      io.Writer
	indent bool
	filter *Filter
}

// NewPrinter returns a Printer. indent selects two-space indentation.
func NewPrinter(w io.Writer, indent bool, filter *Filter) *Printer {
	return &Printer{w: w, indent: indent, filter: filter}
}

// Print filters v and writes each result. String results of a filter are
// written raw, like jq -r.
func (p *Printer) Print(v any) error {
	results, err := p.filter.Apply(v)
	if err != nil {
		return err
	}
	for _, result := range results {
		if s, ok := result.(string); ok && p.filter != nil {
			if _, err := fmt.Fprintln(p.w, s); err != nil {
				return err
			}
			continue
		}
		if err := p.writeJSON(result); err != nil {
			return err
		}
	}
	return nil
}

func (p *Printer) writeJSON(v any) error {
	enc := json.NewEncoder(p.w)
	enc.SetEscapeHTML(false)
	if p.indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
