// Command seed populates a running server with a demo account and post
// through the public API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/bhuumii/Medium/internal/apiclient"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	var (
		baseURL  string
		name     string
		email    string
		password string
	)

	flag.StringVar(&baseURL, "url", envOrDefault("SEED_URL", "http://localhost:8080"), "Base URL of the running server")
	flag.StringVar(&name, "name", "Alice", "Display name of the seed account")
	flag.StringVar(&email, "email", "alice@example.com", "Email of the seed account")
	flag.StringVar(&password, "password", "password", "Password of the seed account")
	flag.Parse()

	ctx := context.Background()
	client := apiclient.New(baseURL)

	fmt.Printf("Registering %s...\n", email)
	if err := client.Register(ctx, name, email, password); err != nil {
		var apiErr *apiclient.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusConflict {
			fmt.Println("Account already exists, continuing")
		} else {
			return err
		}
	}

	if err := client.Login(ctx, email, password); err != nil {
		return err
	}
	fmt.Println("Authenticated")

	post, err := client.CreatePost(ctx,
		"Hello World",
		"Welcome to the Medium-clone",
		"<p>This is a demo post.</p>",
		true,
	)
	if err != nil {
		return err
	}

	fmt.Printf("Created post %s (slug %s)\n", post.ID, post.Slug)
	return nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
