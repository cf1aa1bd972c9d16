package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Rorical/BooklyDesk/internal/config"
	"github.com/Rorical/BooklyDesk/internal/logging"
	"github.com/Rorical/BooklyDesk/internal/mockserver"
)

var mockSettings config.MockServer

var mockCmd = &cobra.Command{
	Use:   "mock-server",
	Short: "Run a local stand-in for the assistant service",
	Long: `Serve GET /health and POST /chat with scripted replies so the chat console
can be tried without the real assistant service. Replies are chosen by matching
the last user message against rules (built-in, or a YAML file via --rules).`,
	PreRun: func(cmd *cobra.Command, args []string) {
		defaults := config.LoadMockServer()
		if !cmd.Flags().Changed("addr") {
			mockSettings.Addr = defaults.Addr
		}
		if !cmd.Flags().Changed("allowed-origin") {
			mockSettings.AllowedOrigin = defaults.AllowedOrigin
		}
		if !cmd.Flags().Changed("rules") {
			mockSettings.RulesPath = defaults.RulesPath
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		rules, err := mockserver.LoadRules(mockSettings.RulesPath)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		fmt.Fprintf(cmd.OutOrStdout(), "Mock assistant listening on %s (%d rules)\n", mockSettings.Addr, len(rules.Rules))
		logging.Info("mock server starting", "addr", mockSettings.Addr, "rules", len(rules.Rules))

		return mockserver.NewServer(rules, mockSettings.AllowedOrigin).ListenAndServe(ctx, mockSettings.Addr)
	},
}

func init() {
	mockCmd.Flags().StringVar(&mockSettings.Addr, "addr", ":8000", "Listen address")
	mockCmd.Flags().StringVar(&mockSettings.AllowedOrigin, "allowed-origin", "*", "CORS allowed origin")
	mockCmd.Flags().StringVar(&mockSettings.RulesPath, "rules", "", "YAML reply rules (default built-in)")
	rootCmd.AddCommand(mockCmd)
}
