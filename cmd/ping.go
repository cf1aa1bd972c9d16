package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Rorical/BooklyDesk/internal/config"
	"github.com/Rorical/BooklyDesk/internal/exchange"
)

var pingTimeout time.Duration

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check that the assistant service is reachable",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if profileName != "" {
			if err := cfg.UseProfile(profileName); err != nil {
				return err
			}
		}
		cfg.Override(appOptions.Endpoint, "")

		if cfg.GetBackend() == config.BackendOpenAI {
			fmt.Fprintf(cmd.OutOrStdout(), "Profile '%s' talks to OpenAI directly; nothing to ping\n", cfg.ActiveProfile)
			return nil
		}

		client := exchange.NewClient(cfg.GetEndpoint(), cfg.GetSessionID())
		healthURL, err := client.HealthURL()
		if err != nil {
			return fmt.Errorf("invalid endpoint %q: %w", cfg.GetEndpoint(), err)
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), pingTimeout)
		defer cancel()

		start := time.Now()
		if err := client.Ping(ctx); err != nil {
			return fmt.Errorf("service unreachable (%s): %w", exchange.Classify(err), err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s is online (%s)\n", healthURL, time.Since(start).Round(time.Millisecond))
		return nil
	},
}

func init() {
	pingCmd.Flags().StringVar(&profileName, "profile", "", "Profile to check")
	pingCmd.Flags().StringVar(&appOptions.Endpoint, "endpoint", "", "Chat endpoint to check (overrides the profile)")
	pingCmd.Flags().DurationVar(&pingTimeout, "timeout", 5*time.Second, "How long to wait for the service")
	rootCmd.AddCommand(pingCmd)
}
