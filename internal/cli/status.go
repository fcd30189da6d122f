package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check that the API and its database are up",
		RunE: func(cmd *cobra.Command, args []string) error {
			health, err := apiClient.Health(context.Background())
			if err != nil {
				return fmt.Errorf("API not ready: %w", err)
			}

			if getOutputFormat() != "table" {
				return printOutput(health)
			}

			fmt.Printf("Server:   %s\n", apiClient.BaseURL())
			fmt.Printf("Status:   %s\n", health.Status)
			fmt.Printf("Database: %s\n", health.Database)
			return nil
		},
	}
}
