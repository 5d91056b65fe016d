package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/vidnavigator/vidnav/internal/logger"
	"github.com/vidnavigator/vidnav/internal/middleware"
	"github.com/vidnavigator/vidnav/internal/server"
)

var logServe = logger.New("cmd:serve")

func newServeCmd(opts *rootOptions) *cobra.Command {
	var (
		listen           string
		useHTTP          bool
		payloadDir       string
		payloadThreshold int
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the VidNavigator operations as MCP tools",
		Long: `Serve the VidNavigator operations as MCP tools.
By default the server speaks MCP over stdin/stdout. With --http or --listen
it serves streamable HTTP on /mcp, plus /health and /tools. When server.api_key
is configured, every route except /health requires it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd, opts)
			if err != nil {
				return err
			}
			defer rt.Close()

			ts := server.New(server.Options{
				Credentials: rt.creds,
				Transport:   rt.transport,
				Payload: middleware.PayloadOptions{
					Dir:       payloadDir,
					Threshold: payloadThreshold,
				},
				Version: version,
			})

			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			if listen != "" {
				useHTTP = true
			}
			if !useHTTP {
				if opts.configStdin {
					return errors.New("--config-stdin cannot be combined with MCP over stdio; use --http")
				}
				logger.LogInfo("serve", "Serving MCP over stdio")
				return ts.RunStdio(ctx)
			}

			addr := listen
			if addr == "" {
				addr = rt.cfg.Server.Listen
			}
			logServe.Printf("Listening on %s, auth=%v", addr, rt.cfg.Server.APIKey != "")
			return ts.ListenAndServe(ctx, addr, rt.cfg.Server.APIKey)
		},
	}
	cmd.Flags().BoolVar(&useHTTP, "http", false, "Serve streamable HTTP on server.listen from config")
	cmd.Flags().StringVarP(&listen, "listen", "l", "", "Serve streamable HTTP on this address (implies --http)")
	cmd.Flags().StringVar(&payloadDir, "payload-dir", "", "Directory for responses too large to return inline")
	cmd.Flags().IntVar(&payloadThreshold, "payload-threshold", middleware.DefaultThreshold, "Size in bytes above which responses are written to --payload-dir")
	return cmd
}
