package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/iho/fintrack/internal/infrastructure/config"
	"github.com/iho/fintrack/internal/infrastructure/logger"
	"github.com/iho/fintrack/internal/infrastructure/postgres"
)

var (
	baseURL string
	timeout time.Duration

	// swapped out in tests
	bcryptGenerate = bcrypt.GenerateFromPassword
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "fintrack-cli",
		Short: "FinTrack CLI tool",
		Long:  `A command line interface for operating the FinTrack API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the FinTrack API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(healthCmd())
	rootCmd.AddCommand(summaryCmd())
	rootCmd.AddCommand(hashPasswordCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrations(false)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back all migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrations(true)
		},
	})

	return cmd
}

func runMigrations(down bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	log := logger.New("fintrack-cli", logger.Config{Level: cfg.LogLevel, Format: "console"})

	if down {
		return postgres.RunMigrationsDown(cfg.DatabaseURL, cfg.MigrationsPath, log)
	}

	return postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, log)
}

func healthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check API readiness",
		Run: func(cmd *cobra.Command, args []string) {
			checkHealth()
		},
	}
}

func checkHealth() {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + "/ready")
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Readiness check FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	var result map[string]any
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Readiness check PASSED\n")
	printJSON(result)
}

func summaryCmd() *cobra.Command {
	var token string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Fetch the transaction summary for the authenticated user",
		Run: func(cmd *cobra.Command, args []string) {
			fetchSummary(token)
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "Bearer token")
	cmd.MarkFlagRequired("token")

	return cmd
}

func fetchSummary(token string) {
	client := &http.Client{Timeout: timeout}

	req, err := http.NewRequest(http.MethodGet, baseURL+"/api/v1/summary", nil)
	if err != nil {
		fmt.Printf("Error building request: %v\n", err)
		os.Exit(1)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Summary request FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	var result map[string]any
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	printJSON(result)
}

func hashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password [password]",
		Short: "Hash a password with bcrypt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := bcryptGenerate([]byte(args[0]), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			fmt.Println(string(hash))
			return nil
		},
	}
}

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("Failed to marshal: %v\n", err)
		return
	}
	fmt.Println(string(data))
}
