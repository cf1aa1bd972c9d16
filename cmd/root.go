package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Rorical/BooklyDesk/internal/app"
	"github.com/Rorical/BooklyDesk/internal/config"
	"github.com/Rorical/BooklyDesk/internal/logging"
)

var (
	verbose     bool
	profileName string
	appOptions  app.Options
)

var rootCmd = &cobra.Command{
	Use:   "booklydesk",
	Short: "Terminal chat console for Bookly customer support",
	Long: `BooklyDesk is a terminal chat console for the Bookly support assistant.
Type a question about an order, a return or a store policy and the assistant
answers, looking up orders and policies on your behalf.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.SetVerbose(verbose)
	},
	SilenceUsage: true,
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
		return runChat(cfg)
	},
}

func runChat(cfg *config.Config) error {
	application, err := app.NewApplication(cfg, appOptions)
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}
	defer application.Stop()

	if err := application.Start(); err != nil {
		return fmt.Errorf("application error: %w", err)
	}
	return nil
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logging.Error("command failed", "err", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	flags := rootCmd.Flags()
	flags.StringVar(&profileName, "profile", "", "Profile to use for this run (does not change the active profile)")
	flags.StringVar(&appOptions.Endpoint, "endpoint", "", "Assistant service chat endpoint (overrides the profile)")
	flags.StringVar(&appOptions.SessionID, "session", "", "Conversation id sent with every request (overrides the profile)")
	flags.StringVar(&appOptions.LogFile, "log-file", "", "Log file path (default ~/.booklydesk/booklydesk.log)")
	flags.StringVar(&appOptions.ExportFormat, "export-format", "md", "Transcript export format: md, json, yaml, jsonl")
	flags.StringVar(&appOptions.ExportDir, "export-dir", ".", "Directory for transcript exports")

	rootCmd.AddCommand(profileCmd)
}
