package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/blang/semver"
	"github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"
)

const repositorySlug = "NomelN/Ivoire-cine"

var (
	version   = "dev"
	buildTime = "unknown"

	checkLatest bool
)

// SetVersion records the build information injected at link time
func SetVersion(v, built string) {
	version = v
	buildTime = built
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:               "version",
	Short:             "Print the version",
	Long:              `Print the version and build time, optionally checking GitHub for a newer release.`,
	PersistentPreRunE: skipInitialization,
	RunE:              runVersion,
}

func init() {
	versionCmd.Flags().BoolVar(&checkLatest, "check", false, "check for a newer release")
}

func runVersion(cmd *cobra.Command, args []string) error {
	fmt.Printf("ivoire-cine %s (built %s)\n", version, buildTime)

	if !checkLatest {
		return nil
	}

	current, err := semver.ParseTolerant(version)
	if err != nil {
		return fmt.Errorf("cannot compare development build %q with releases", version)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
	defer cancel()

	latest, found, err := selfupdate.DetectLatest(ctx, selfupdate.ParseSlug(repositorySlug))
	if err != nil {
		return fmt.Errorf("failed to check for updates: %w", err)
	}
	if !found {
		fmt.Println("No release found.")
		return nil
	}

	newest, err := semver.ParseTolerant(latest.Version())
	if err != nil {
		return fmt.Errorf("invalid release version %q: %w", latest.Version(), err)
	}

	if newest.GT(current) {
		fmt.Printf("A newer version is available: %s\n%s\n", newest, latest.URL)
	} else {
		fmt.Println("You are running the latest version.")
	}

	return nil
}
