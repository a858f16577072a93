package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// cacheCmd groups response cache maintenance
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the TMDB response cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every cached TMDB response",
	Args:  cobra.NoArgs,
	RunE:  runCacheClear,
}

func init() {
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	if !cfg.Cache.Enabled {
		fmt.Println("Response cache is disabled (cache.enabled is false)")
		return nil
	}

	c, err := openCache()
	if err != nil {
		return fmt.Errorf("failed to open response cache: %w", err)
	}

	if err := c.Clear(); err != nil {
		return fmt.Errorf("failed to clear response cache: %w", err)
	}

	fmt.Printf("Response cache cleared: %s\n", cfg.Cache.Path)
	return nil
}
