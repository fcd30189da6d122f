package client_test

import (
	"context"
	"fmt"
	"log"

	"github.com/sleepharmony/landing/pkg/client"
)

// Example registers an email from the landing page
func Example() {
	c := client.NewClient(client.Config{
		BaseURL: "https://api.sleepharmony.fr",
	})

	resp, err := c.Register(context.Background(), &client.RegisterRequest{
		Email:         "parent@example.com",
		AcceptsEmails: true,
	})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Registered %s (%s)\n", resp.User.Email, resp.User.SubscriptionStatus)
}

// ExampleClient_GetUser looks up a user with an admin service token
func ExampleClient_GetUser() {
	c := client.NewClient(client.Config{
		BaseURL: "https://api.sleepharmony.fr",
		Token:   "admin-service-token",
	})

	profile, err := c.GetUser(context.Background(), "parent@example.com")
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("%d qualification(s)\n", len(profile.Qualifications))
}
