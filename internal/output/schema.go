package output

import (
	"fmt"

	"github.com/itchyny/gojq"
)

// schemaFilter replaces every leaf with its jq type name and keeps only the
// first element of arrays.
const schemaFilter = `
def walk(f):
  . as $in |
  if type == "object" then
    reduce keys[] as $k ({}; . + {($k): ($in[$k] | walk(f))})
  elif type == "array" then
    if length == 0 then [] else [.[0] | walk(f)] end
  else
    type
  end;
walk(.)
`

var schemaCode = mustCompile(schemaFilter)

func mustCompile(expr string) *gojq.Code {
	query, err := gojq.Parse(expr)
	if err != nil {
		panic(fmt.Sprintf("invalid built-in jq filter: %v", err))
	}
	code, err := gojq.Compile(query)
	if err != nil {
		panic(fmt.Sprintf("invalid built-in jq filter: %v", err))
	}
	return code
}

// InferSchema describes the shape of v, e.g. {"items":[{"id":"number"}]}
func InferSchema(v any) (any, error) {
	normalized, err := toJQValue(v)
	if err != nil {
		return nil, err
	}
	iter := schemaCode.Run(normalized)
	out, ok := iter.Next()
	if !ok {
		return nil, fmt.Errorf("jq schema filter returned no results")
	}
	if err, ok := out.(error); ok {
		return nil, fmt.Errorf("jq schema filter error: %w", err)
	}
	return out, nil
}
