package cmd

import (
	"context"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/vidnavigator/vidnav/internal/config"
	"github.com/vidnavigator/vidnav/internal/logger"
	"github.com/vidnavigator/vidnav/internal/logger/sanitize"
	"github.com/vidnavigator/vidnav/internal/output"
	"github.com/vidnavigator/vidnav/internal/tty"
	"github.com/vidnavigator/vidnav/internal/vidnav"
)

var logRuntime = logger.New("cmd:runtime")

// runtime is what a command needs to talk to VidNavigator
type runtime struct {
	cfg       *config.Config
	creds     vidnav.CredentialSource
	transport vidnav.AuthenticatedTransport
	printer   *output.Printer

	closers []func() error
}

// newRuntime resolves configuration in order: defaults, then --config-stdin
// or --config, then the environment, then --base-url and --token.
func newRuntime(cmd *cobra.Command, opts *rootOptions) (*runtime, error) {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	cfg.Override(opts.baseURL, opts.token)

	filter, err := output.ParseFilter(opts.jqFilter)
	if err != nil {
		return nil, err
	}

	rt := &runtime{
		cfg:       cfg,
		creds:     vidnav.StaticCredentials(cfg.VidnavCredentials()),
		transport: vidnav.HTTPTransport{HTTPClient: &http.Client{Timeout: cfg.Timeout()}},
		printer:   output.NewPrinter(cmd.OutOrStdout(), tty.IsStdoutTerminal(), filter),
	}

	// A config file is re-read when it changes on disk
	if opts.configFile != "" && !opts.configStdin {
		fc, err := config.NewFileCredentials(opts.configFile, opts.baseURL, opts.token)
		if err != nil {
			logRuntime.Printf("Credential reload disabled: %v", err)
		} else {
			rt.creds = fc
			rt.closers = append(rt.closers, fc.Close)
		}
	}

	logRuntime.Printf("Runtime ready: base_url=%s, token=%s, timeout=%s",
		cfg.Credentials.BaseURL, sanitize.TruncateSecret(cfg.Credentials.Token), cfg.Timeout())
	return rt, nil
}

func loadConfig(cmd *cobra.Command, opts *rootOptions) (*config.Config, error) {
	switch {
	case opts.configStdin:
		logRuntime.Print("Reading configuration from stdin")
		return config.LoadJSON(cmd.InOrStdin())
	case opts.configFile != "":
		logRuntime.Printf("Reading configuration from %s", opts.configFile)
		return config.LoadFromFile(opts.configFile)
	default:
		return config.Default(), nil
	}
}

func (rt *runtime) Close() {
	for _, closeFn := range rt.closers {
		if err := closeFn(); err != nil {
			logRuntime.Printf("Close failed: %v", err)
		}
	}
}

// credentials returns the credentials of the current item
func (rt *runtime) credentials(ctx context.Context) (vidnav.Credentials, error) {
	return rt.creds.Credentials(ctx)
}

// execute runs every item of params and prints one record per item. Records
// produced before a stopping failure are still printed.
func (rt *runtime) execute(ctx context.Context, params vidnav.MapParameters, continueOnFail bool) error {
	exec := &vidnav.Executor{
		Credentials:    rt.creds,
		Parameters:     params,
		Transport:      rt.transport,
		ContinueOnFail: continueOnFail,
	}
	records, runErr := exec.Run(ctx, params.Len())
	for _, record := range records {
		if err := rt.printer.Print(record.JSON); err != nil {
			return err
		}
	}
	return runErr
}

// runOperation is the body shared by the single-item operation commands
func runOperation(cmd *cobra.Command, opts *rootOptions, params map[string]any) error {
	rt, err := newRuntime(cmd, opts)
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	op, _ := params["operation"].(string)
	logger.LogInfo("cmd", "Running %s", op)
	if err := rt.execute(ctx, vidnav.SingleItem(params), opts.continueOnFail); err != nil {
		return fmt.Errorf("%s failed: %w", op, err)
	}
	return nil
}
