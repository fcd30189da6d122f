package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sleepharmony/landing/internal/landing"
)

func newSignupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "signup [email]",
		Short: "Register an email the way the landing page form does",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			form := landing.Form{}
			if len(args) == 1 {
				form = form.SetEmail(args[0])
			} else {
				form = form.SetEmail(promptInput("Email: "))
			}

			form, err := landing.Submit(context.Background(), apiClient, form, cliLogger())
			if err != nil {
				return fmt.Errorf("%s", form.Error)
			}

			fmt.Println("Merci ! Vous recevrez bientôt un email de bienvenue.")
			return nil
		},
	}
}
