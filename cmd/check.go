package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/NomelN/Ivoire-cine/radarr"
	"github.com/NomelN/Ivoire-cine/tmdb"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Test connection to TMDB and Radarr",
	Long:  `Test the connection to the TMDB API (and Radarr when enabled) and display basic information.`,
	RunE:  runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 2*cfg.TMDB.Timeout)
	defer cancel()

	if cfg.File != "" {
		fmt.Printf("Using config file %s\n", cfg.File)
	} else {
		fmt.Println("No config file found, using defaults and environment")
	}

	fmt.Printf("Testing connection to TMDB at %s...\n", cfg.TMDB.BaseURL)
	if err := tmdbClient.Ping(ctx); err != nil {
		return fmt.Errorf("TMDB connection failed: %s: %w", tmdb.Message(err), err)
	}
	fmt.Println("✓ Connection successful!")

	genres, err := tmdbClient.Genres(ctx)
	if err != nil {
		return fmt.Errorf("failed to get genres: %w", err)
	}

	fmt.Printf("\nTMDB Statistics:\n")
	fmt.Printf("- Language: %s\n", cfg.TMDB.Language)
	fmt.Printf("- Genres: %d\n", len(genres.Genres))
	fmt.Printf("- Cache TTL: %s\n", cfg.Cache.TTL)

	// Test Radarr if configured
	if cfg.Radarr.Enabled {
		fmt.Printf("\nTesting connection to Radarr at %s...\n", cfg.Radarr.URL)
		if _, err := radarr.NewClient(cfg.Radarr.URL, cfg.Radarr.APIKey, logger); err != nil {
			fmt.Printf("✗ Radarr connection failed: %v\n", err)
		} else {
			fmt.Println("✓ Radarr connection successful!")
		}
	} else {
		fmt.Println("\nRadarr integration: Disabled")
	}

	return nil
}
