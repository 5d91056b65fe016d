package cmd

import (
	"github.com/spf13/cobra"

	"github.com/vidnavigator/vidnav/internal/vidnav"
)

func newToolsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "List the tools of the VidNavigator MCP endpoint",
		Long: `List the tools of the VidNavigator MCP endpoint as {name, value} options.
A single "No Tools Available" option is printed when the endpoint cannot be
reached or exposes no tools.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd, opts)
			if err != nil {
				return err
			}
			defer rt.Close()

			creds, err := rt.credentials(cmd.Context())
			if err != nil {
				return err
			}
			return rt.printer.Print(vidnav.DiscoverTools(cmd.Context(), creds, rt.transport))
		},
	}
}

func newAuthCmd(opts *rootOptions) *cobra.Command {
	authCmd := &cobra.Command{
		Use:   "auth",
		Short: "Credential commands",
	}
	authCmd.AddCommand(&cobra.Command{
		Use:   "test",
		Short: "Check that the configured token is accepted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd, opts)
			if err != nil {
				return err
			}
			defer rt.Close()

			creds, err := rt.credentials(cmd.Context())
			if err != nil {
				return err
			}
			if err := vidnav.TestCredentials(cmd.Context(), creds, rt.transport); err != nil {
				return err
			}
			return rt.printer.Print(map[string]any{
				"status":  "ok",
				"baseUrl": creds.ResolvedBaseURL(),
			})
		},
	})
	return authCmd
}
