package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sleepharmony/landing/internal/domain/qualification"
	"github.com/sleepharmony/landing/pkg/client"
)

func newAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Operator commands (need a token with the admin scope)",
	}

	cmd.AddCommand(newAdminUserCmd())
	cmd.AddCommand(newAdminSetStatusCmd())

	return cmd
}

func newAdminUserCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "user <email>",
		Short: "Show a registration with its questionnaires and subscriptions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := apiClient.GetUser(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get user: %w", err)
			}

			if getOutputFormat() != "table" {
				return printOutput(profile)
			}

			u := profile.User
			fmt.Printf("ID:         %s\n", u.ID)
			fmt.Printf("Email:      %s\n", u.Email)
			fmt.Printf("First name: %s\n", u.FirstName)
			fmt.Printf("Status:     %s\n", formatStatus(u.SubscriptionStatus))
			fmt.Printf("Trial ends: %s\n", formatTime(u.TrialEndsAt))
			fmt.Printf("Created:    %s\n", formatTime(&u.CreatedAt))

			if len(profile.Qualifications) > 0 {
				fmt.Println()
				table := NewTable("CREATED", "BABY AGE", "TOGETHER", "STATUS", "CHALLENGES", "URGENCY", "MOTIVATION")
				for _, q := range profile.Qualifications {
					table.AddRow(qualificationRow(q)...)
				}
				table.Render()
			}

			if len(profile.Subscriptions) > 0 {
				fmt.Println()
				table := NewTable("EMAIL", "SUBSCRIBED", "UNSUBSCRIBED")
				for _, s := range profile.Subscriptions {
					table.AddRow(s.Email, formatTime(&s.SubscribedAt), formatTime(s.UnsubscribedAt))
				}
				table.Render()
			}
			return nil
		},
	}
}

// qualificationRow renders stored answers with their questionnaire labels
func qualificationRow(q *client.Qualification) []string {
	challenges := make([]string, len(q.MainChallenges))
	for i, c := range q.MainChallenges {
		challenges[i] = qualification.Label(qualification.FieldMainChallenges, c)
	}

	return []string{
		formatTime(&q.CreatedAt),
		qualification.Label(qualification.FieldBabyAge, q.BabyAge),
		qualification.Label(qualification.FieldRelationDuration, q.RelationDuration),
		truncate(qualification.Label(qualification.FieldRelationStatus, q.RelationStatus), 32),
		truncate(strings.Join(challenges, ", "), 48),
		truncate(qualification.Label(qualification.FieldUrgencyLevel, q.UrgencyLevel), 32),
		truncate(qualification.Label(qualification.FieldMotivation, q.Motivation), 32),
	}
}

func newAdminSetStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-status <user-id> <trial|active|cancelled|expired>",
		Short: "Change a user's subscription status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := apiClient.SetSubscriptionStatus(context.Background(), args[0], args[1])
			if err != nil {
				return fmt.Errorf("failed to update status: %w", err)
			}

			if getOutputFormat() != "table" {
				return printOutput(u)
			}

			fmt.Printf("%s is now %s\n", u.Email, formatStatus(u.SubscriptionStatus))
			return nil
		},
	}
}
