package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/yjpartners/valet/internal/cli"
	"github.com/yjpartners/valet/internal/config"
	"github.com/yjpartners/valet/internal/store"
)

func authCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authenticate with Google Drive",
		Long: `Authenticate with Google Drive using OAuth2.

This command will:
1. Open your browser to authenticate with Google
2. Save the token under your config directory
3. Refresh it silently from then on

Run it again any time to switch accounts.`,
		RunE: runAuth,
	}

	cmd.Flags().String("client-id", "", "OAuth2 Client ID (overrides config)")
	cmd.Flags().String("client-secret", "", "OAuth2 Client Secret (overrides config)")

	return cmd
}

func runAuth(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	// Get OAuth2 config
	clientID := viper.GetString("drive.client_id")
	clientSecret := viper.GetString("drive.client_secret")

	// Override with flags if provided
	if flagID, _ := cmd.Flags().GetString("client-id"); flagID != "" {
		clientID = flagID
	}
	if flagSecret, _ := cmd.Flags().GetString("client-secret"); flagSecret != "" {
		clientSecret = flagSecret
	}

	// Check for environment variables as fallback
	if clientID == "" {
		clientID = os.Getenv("GOOGLE_DRIVE_CLIENT_ID")
	}
	if clientSecret == "" {
		clientSecret = os.Getenv("GOOGLE_DRIVE_CLIENT_SECRET")
	}

	if clientID == "" || clientSecret == "" {
		return fmt.Errorf("OAuth2 credentials not found. Please set drive.client_id and drive.client_secret in config or use --client-id and --client-secret flags")
	}

	authCfg := store.DriveAuthConfig{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenFile:    config.ExpandPath(viper.GetString("drive.token_path")),
	}

	if _, err := store.LoadToken(authCfg.TokenFile); err == nil {
		prompter := cli.NewPrompter(os.Stdin, os.Stdout)
		again, perr := prompter.Confirm(ctx, "A Drive token already exists. Authenticate again?", false)
		if perr != nil {
			return perr
		}
		if !again {
			fmt.Println(cli.FormatInfo("Keeping the existing token."))
			return nil
		}
	}

	slog.Info("Starting Google Drive authentication", "token_file", authCfg.TokenFile)

	if _, err := store.AuthenticateInteractive(ctx, authCfg); err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	slog.Info("✅ Authentication successful!")
	slog.Info("☁️  Google Drive is now connected.")
	slog.Info("Run 'valet organize --drive <folderID>' to file a Drive folder.")

	return nil
}
