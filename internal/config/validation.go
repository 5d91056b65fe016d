package config

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/vidnavigator/vidnav/internal/config/rules"
	"github.com/vidnavigator/vidnav/internal/logger"
)

// ValidationError is an alias for rules.ValidationError
type ValidationError = rules.ValidationError

// Variable expression pattern: ${VARIABLE_NAME}
var varExprPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

var logValidation = logger.New("config:validation")

// expandVariables expands variable expressions in a string
// Returns the expanded string and error if any variable is undefined
func expandVariables(value, jsonPath string) (string, error) {
	var undefinedVars []string

	result := varExprPattern.ReplaceAllStringFunc(value, func(match string) string {
		varName := match[2 : len(match)-1]
		if envValue, exists := os.LookupEnv(varName); exists {
			logValidation.Printf("Expanded variable: %s (found in environment)", varName)
			return envValue
		}
		undefinedVars = append(undefinedVars, varName)
		return match
	})

	if len(undefinedVars) > 0 {
		logValidation.Printf("Variable expansion failed at %s: undefined variables=%v", jsonPath, undefinedVars)
		return "", rules.UndefinedVariable(undefinedVars[0], jsonPath)
	}
	return result, nil
}

// expandTree expands ${VAR} in every string of a decoded document. Keys are
// visited in sorted order so the first reported error is stable.
func expandTree(value any, jsonPath string) (any, error) {
	switch v := value.(type) {
	case string:
		return expandVariables(v, jsonPath)
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		out := make(map[string]any, len(v))
		for _, k := range keys {
			child, err := expandTree(v[k], joinPath(jsonPath, k))
			if err != nil {
				return nil, err
			}
			out[k] = child
		}
		return out, nil
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			child, err := expandTree(item, fmt.Sprintf("%s[%d]", jsonPath, i))
			if err != nil {
				return nil, err
			}
			out[i] = child
		}
		return out, nil
	default:
		return value, nil
	}
}

func joinPath(parent, key string) string {
	if parent == "" {
		return key
	}
	return parent + "." + key
}

// Validate checks the rules the schema cannot express
func (c *Config) Validate() error {
	var errs []*ValidationError

	if c.Credentials.BaseURL != "" {
		if err := rules.HTTPURL(strings.TrimSpace(c.Credentials.BaseURL), "base_url", "credentials.base_url"); err != nil {
			errs = append(errs, err)
		}
	}
	if err := rules.TimeoutNonNegative(c.HTTP.TimeoutSeconds, "timeout_seconds", "http.timeout_seconds"); err != nil {
		errs = append(errs, err)
	}
	if c.Server.Listen != "" {
		if err := rules.ListenAddress(c.Server.Listen, "server.listen"); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return errs[0]
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d configuration errors:", len(errs)))
	for _, err := range errs {
		sb.WriteString("\n\n" + err.Error())
	}
	rules.AppendConfigDocsFooter(&sb)
	return fmt.Errorf("%s", sb.String())
}
