package vidnav

import (
	"context"
	"fmt"

	"github.com/vidnavigator/vidnav/internal/logger"
	"github.com/vidnavigator/vidnav/internal/mcp"
)

var logExecutor = logger.New("vidnav:executor")

// credentialTestID is the fixed JSON-RPC id of the credential test request.
const credentialTestID = 1

// unsupportedOperation is the output of an item whose operation is unknown.
const unsupportedOperation = "Unsupported operation"

// ItemError reports which item failed.
type ItemError struct {
	Index int
	Err   error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("item %d: %v", e.Index, e.Err)
}

func (e *ItemError) Unwrap() error {
	return e.Err
}

// Executor runs one operation per input item, sequentially. Nothing is
// shared between items: credentials are fetched again for each one.
type Executor struct {
	Credentials CredentialSource
	Parameters  ParameterSource
	Transport   AuthenticatedTransport
	// ContinueOnFail turns an item failure into an {"error": message}
	// record instead of stopping the run.
	ContinueOnFail bool
}

// Run executes items 0..count-1 and returns one record per item. Without
// ContinueOnFail the first failure stops the run and is returned as an
// *ItemError alongside the records produced so far.
func (e *Executor) Run(ctx context.Context, count int) ([]OutputRecord, error) {
	logExecutor.Printf("Running %d items, continueOnFail=%v", count, e.ContinueOnFail)
	records := make([]OutputRecord, 0, count)
	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			return records, &ItemError{Index: i, Err: err}
		}

		record, err := e.RunItem(ctx, i)
		if err != nil {
			logger.LogError("executor", "Item %d failed: %v", i, err)
			if !e.ContinueOnFail {
				return records, &ItemError{Index: i, Err: err}
			}
			record = OutputRecord{JSON: map[string]any{"error": err.Error()}}
		}
		records = append(records, record)
	}
	return records, nil
}

// RunItem executes a single item.
func (e *Executor) RunItem(ctx context.Context, item int) (OutputRecord, error) {
	op, err := e.operation(item)
	if err != nil {
		return OutputRecord{}, err
	}
	if !op.Supported() {
		logExecutor.Printf("Item %d: unsupported operation %q", item, string(op))
		return Normalize(map[string]any{"error": unsupportedOperation}), nil
	}

	creds, err := e.Credentials.Credentials(ctx)
	if err != nil {
		return OutputRecord{}, fmt.Errorf("failed to get credentials: %w", err)
	}

	params, err := ReadParams(op, e.Parameters, item)
	if err != nil {
		return OutputRecord{}, err
	}
	req, err := BuildRequest(creds.ResolvedBaseURL(), params)
	if err != nil {
		return OutputRecord{}, err
	}

	logExecutor.Printf("Item %d: %s", item, op.Action())
	resp, err := e.Transport.Send(ctx, creds, req)
	if err != nil {
		return OutputRecord{}, err
	}
	return Normalize(resp), nil
}

func (e *Executor) operation(item int) (Operation, error) {
	v, ok := e.Parameters.Parameter("operation", item)
	if !ok {
		return DefaultOperation, nil
	}
	s, err := asString("operation", v)
	if err != nil {
		return "", err
	}
	if s == "" {
		return DefaultOperation, nil
	}
	return Operation(s), nil
}

// TestCredentials checks creds with a tools/list POST to the base URL. Any
// 2xx response counts as success.
func TestCredentials(ctx context.Context, creds Credentials, transport AuthenticatedTransport) error {
	rpc, err := mcp.NewRequestWithID(credentialTestID, mcp.MethodToolsList, struct{}{})
	if err != nil {
		return err
	}
	baseURL := creds.ResolvedBaseURL()
	if _, err := transport.Send(ctx, creds, listToolsHTTP(baseURL, rpc)); err != nil {
		logger.LogWarn("auth", "Credential test against %s failed: %v", baseURL, err)
		return fmt.Errorf("credential test failed: %w", err)
	}
	logger.LogInfo("auth", "Credential test against %s succeeded", baseURL)
	return nil
}
