package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newTenantCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Server key commands",
	}

	cmd.AddCommand(newTenantCreateCmd())
	cmd.AddCommand(newTenantConnectCmd())
	cmd.AddCommand(newTenantDisconnectCmd())
	cmd.AddCommand(newTenantInfoCmd())

	return cmd
}

func newTenantCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create",
		Short: "Create a new server key and connect to it",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Tenant

			if err := client.Post("/api/v1/tenants", nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newTenantConnectCmd() *cobra.Command {
	var key string

	cmd := &cobra.Command{
		Use:   "connect",
		Short: "Connect to a server with its key",
		RunE: func(cmd *cobra.Command, args []string) error {
			if key == "" {
				return fmt.Errorf("--key is required")
			}

			req := map[string]string{"tenant_key": key}
			if err := client.Post("/api/v1/tenants/connect", req, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Connected")
			return nil
		},
	}

	cmd.Flags().StringVar(&key, "key", "", "Server key (required)")
	_ = cmd.MarkFlagRequired("key")

	return cmd
}

func newTenantDisconnectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "disconnect",
		Short: "Disconnect from the current server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Post("/api/v1/tenants/disconnect", nil, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Disconnected")
			return nil
		},
	}
}

func newTenantInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the currently connected server",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Tenant

			if err := client.Get("/api/v1/tenants/current", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
