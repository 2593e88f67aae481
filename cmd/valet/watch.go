package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/yjpartners/valet/internal/config"
	"github.com/yjpartners/valet/internal/widget"
)

func watchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Open the cost widget",
		Long: `A small terminal widget that keeps this month's API spend in the
corner of your eye. It prefetches in the background, so the panel
opens warm; while open it re-polls every fifteen seconds.

Keys: enter/space/o toggle the panel, r refreshes, q quits.`,
		RunE: runWatch,
	}

	cmd.Flags().String("api", config.DefaultAPIBaseURL, "cost API base URL")
	_ = viper.BindPFlag("api.base_url", cmd.Flags().Lookup("api"))

	return cmd
}

func runWatch(_ *cobra.Command, _ []string) error {
	return widget.Run(widget.NewClient(viper.GetString("api.base_url")))
}
