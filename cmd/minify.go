package cmd

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/NomelN/Ivoire-cine/assets"
)

// minifyCmd represents the minify command
var minifyCmd = &cobra.Command{
	Use:   "minify [static-dir]",
	Short: "Write minified copies of CSS and JS files",
	Long: `Write a .min.css or .min.js copy next to every stylesheet and script in the
static directory (default web/static). The production server links the
minified copies when they exist.`,
	Args:              cobra.MaximumNArgs(1),
	PersistentPreRunE: skipInitialization,
	RunE:              runMinify,
}

func runMinify(cmd *cobra.Command, args []string) error {
	dir := "web/static"
	if len(args) > 0 {
		dir = args[0]
	}

	results, err := assets.OptimizeDir(dir, logger)
	if err != nil {
		return fmt.Errorf("failed to minify %s: %w", dir, err)
	}

	if len(results) == 0 {
		fmt.Println("No CSS or JS files found.")
		return nil
	}

	for _, r := range results {
		fmt.Printf("• %s -> %s (%s -> %s)\n", r.Source, r.Target,
			humanize.Bytes(uint64(r.Before)), humanize.Bytes(uint64(r.After)))
	}

	return nil
}
