package main

import "github.com/spf13/cobra"

var rootCmd = &cobra.Command{
	Use:           "trustctl",
	Short:         "Inspect ListingHub trust scoring and tier classification",
	SilenceUsage:  true,
	SilenceErrors: true,
}
