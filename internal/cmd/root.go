package cmd

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vidnavigator/vidnav/internal/logger"
	"github.com/vidnavigator/vidnav/internal/logger/sanitize"
)

const (
	// defaultLogDir is used when neither --log-dir nor VIDNAV_LOG_DIR is set
	defaultLogDir = "/tmp/vidnav/logs"
	// logDirEnv overrides the default log directory
	logDirEnv = "VIDNAV_LOG_DIR"
)

var (
	debugLog = logger.New("cmd:root")
	version  = "dev" // Default version, overridden by SetVersion
)

// rootOptions holds the persistent flags shared by every command
type rootOptions struct {
	configFile     string
	configStdin    bool
	envFile        string
	baseURL        string
	token          string
	logDir         string
	jqFilter       string
	continueOnFail bool
}

// NewRootCmd builds the vidnav command tree
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:     "vidnav",
		Short:   "VidNavigator video intelligence from the command line",
		Version: version,
		Long: `vidnav talks to the VidNavigator MCP endpoint over JSON-RPC.
It searches videos, fetches and creates transcripts, analyzes videos and
answers follow up questions, and can serve all of it as MCP tools.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.envFile != "" {
				debugLog.Printf("Loading environment from file: %s", opts.envFile)
				if err := loadEnvFile(opts.envFile); err != nil {
					return fmt.Errorf("failed to load .env file: %w", err)
				}
			}
			initLogging(opts.logDir)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			closeLogging()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.configFile, "config", "c", "", "Path to TOML config file")
	flags.BoolVar(&opts.configStdin, "config-stdin", false, "Read configuration from stdin (JSON format). When enabled, overrides --config")
	flags.StringVar(&opts.envFile, "env", "", "Path to .env file to load environment variables")
	flags.StringVar(&opts.baseURL, "base-url", "", "VidNavigator MCP endpoint (overrides config and VIDNAVIGATOR_BASE_URL)")
	flags.StringVar(&opts.token, "token", "", "Bearer token (overrides config and VIDNAVIGATOR_TOKEN)")
	flags.StringVar(&opts.logDir, "log-dir", "", "Directory for log files (default $VIDNAV_LOG_DIR or "+defaultLogDir+")")
	flags.StringVar(&opts.jqFilter, "jq", "", "jq expression applied to each output record")
	flags.BoolVar(&opts.continueOnFail, "continue-on-fail", false, "Emit {\"error\": ...} records instead of stopping at the first failed item")

	rootCmd.AddCommand(
		newSearchCmd(opts),
		newAnalyzeCmd(opts),
		newTranscriptCmd(opts),
		newFollowupCmd(opts),
		newTranscribeCmd(opts),
		newCallCmd(opts),
		newRequestCmd(opts),
		newToolsCmd(opts),
		newAuthCmd(opts),
		newRunCmd(opts),
		newServeCmd(opts),
		newCompletionCmd(),
	)
	return rootCmd
}

// getDefaultLogDir returns VIDNAV_LOG_DIR if set, otherwise defaultLogDir
func getDefaultLogDir() string {
	if dir := os.Getenv(logDirEnv); dir != "" {
		return dir
	}
	return defaultLogDir
}

func initLogging(logDir string) {
	if logDir == "" {
		logDir = getDefaultLogDir()
	}
	if err := logger.InitFileLogger(logDir, "vidnav.log"); err != nil {
		log.Printf("Warning: failed to initialize file logger: %v", err)
	}
	if err := logger.InitJSONLLogger(logDir, "rpc-messages.jsonl"); err != nil {
		debugLog.Printf("RPC message log disabled: %v", err)
	}
	logger.LogInfo("startup", "vidnav %s starting, args=%v", version, os.Args[1:])
}

func closeLogging() {
	if err := logger.CloseJSONLLogger(); err != nil {
		debugLog.Printf("Failed to close RPC message log: %v", err)
	}
	if err := logger.CloseGlobalLogger(); err != nil {
		debugLog.Printf("Failed to close log file: %v", err)
	}
}

// loadEnvFile reads a .env file and sets environment variables
func loadEnvFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	loadedVars := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(strings.TrimPrefix(key, "export "))
		value = os.ExpandEnv(strings.Trim(strings.TrimSpace(value), `"'`))

		if err := os.Setenv(key, value); err != nil {
			return fmt.Errorf("failed to set %s: %w", key, err)
		}
		debugLog.Printf("Loaded: %s=%s", key, sanitize.TruncateSecret(value))
		loadedVars++
	}

	debugLog.Printf("Loaded %d environment variables from %s", loadedVars, path)
	return scanner.Err()
}

// signalContext is cancelled on SIGINT or SIGTERM
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// SetVersion sets the version string for the CLI
func SetVersion(v string) {
	version = v
}
