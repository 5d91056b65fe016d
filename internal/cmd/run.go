package cmd

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/vidnavigator/vidnav/internal/logger"
	"github.com/vidnavigator/vidnav/internal/vidnav"
)

var logRun = logger.New("cmd:run")

// maxLineSize bounds a single JSONL item
const maxLineSize = 4 * 1024 * 1024

func newRunCmd(opts *rootOptions) *cobra.Command {
	var (
		input     string
		operation string
		sets      []string
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one operation per JSONL input item",
		Long: `Read JSON objects, one per line, and run the operation each one names.
Items without an "operation" field use --operation. --set key=value supplies
a default for every item; values are parsed as JSON when possible.

Input comes from the files matching --input (a ** glob, read in sorted
order) or from stdin.`,
		Example: `  vidnav run --input 'batches/**/*.jsonl'
  echo '{"queryText":"go generics"}' | vidnav run --set maxResults=3`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defaults, err := parseSetFlags(sets)
			if err != nil {
				return err
			}
			if operation != "" {
				defaults["operation"] = operation
			}

			if input == "" && opts.configStdin {
				return errors.New("--config-stdin cannot be combined with items on stdin; use --input")
			}

			items, err := readInputItems(cmd.InOrStdin(), input)
			if err != nil {
				return err
			}
			logger.LogInfo("cmd", "Running batch of %d items", len(items))

			rt, err := newRuntime(cmd, opts)
			if err != nil {
				return err
			}
			defer rt.Close()

			ctx, cancel := signalContext(cmd.Context())
			defer cancel()
			return rt.execute(ctx, vidnav.MapParameters{Items: items, Defaults: defaults}, opts.continueOnFail)
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "Glob of JSONL input files (default stdin)")
	cmd.Flags().StringVar(&operation, "operation", "", "Operation for items that do not name one")
	cmd.Flags().StringArrayVar(&sets, "set", nil, "Default parameter as key=value (repeatable)")
	return cmd
}

// parseSetFlags decodes key=value defaults. JSON values keep their type so
// numbers stay numbers; anything else is a string.
func parseSetFlags(values []string) (map[string]any, error) {
	defaults := make(map[string]any, len(values))
	for _, v := range values {
		key, raw, ok := strings.Cut(v, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --set %q: expected key=value", v)
		}
		var decoded any
		if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
			decoded = raw
		}
		defaults[key] = decoded
	}
	return defaults, nil
}

// readInputItems reads items from the files matching pattern, or from stdin
// when pattern is empty
func readInputItems(stdin io.Reader, pattern string) ([]map[string]any, error) {
	if pattern == "" {
		return decodeJSONL(stdin, "stdin")
	}

	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("invalid --input pattern %q: %w", pattern, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no input files match %q", pattern)
	}
	logRun.Printf("Input pattern %s matched %d files", pattern, len(matches))

	var items []map[string]any
	for _, path := range matches {
		fileItems, err := decodeFile(path)
		if err != nil {
			return nil, err
		}
		items = append(items, fileItems...)
	}
	return items, nil
}

func decodeFile(path string) ([]map[string]any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	defer f.Close()
	return decodeJSONL(f, path)
}

// decodeJSONL reads one JSON object per non-blank line
func decodeJSONL(r io.Reader, name string) ([]map[string]any, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var items []map[string]any
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		var item map[string]any
		if err := json.Unmarshal([]byte(text), &item); err != nil {
			return nil, fmt.Errorf("%s:%d: item must be a JSON object: %w", name, line, err)
		}
		if item == nil {
			return nil, fmt.Errorf("%s:%d: item must be a JSON object", name, line)
		}
		items = append(items, item)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	logRun.Printf("Read %d items from %s", len(items), name)
	return items, nil
}
