package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/Rorical/BooklyDesk/internal/config"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage connection profiles",
	Long:  `Manage profiles that say which assistant service (or OpenAI account) to talk to.`,
}

var (
	profileFields config.Profile
	forceDelete   bool
)

func printProfile(w io.Writer, indent string, profile config.Profile) {
	backend := profile.Backend
	if backend == "" {
		backend = config.BackendService
	}
	fmt.Fprintf(w, "%sBackend: %s\n", indent, backend)
	if backend == config.BackendOpenAI {
		fmt.Fprintf(w, "%sModel: %s\n", indent, profile.Model)
		if profile.BaseURL != "" {
			fmt.Fprintf(w, "%sBase URL: %s\n", indent, profile.BaseURL)
		}
		hasKey := "Not set"
		if profile.APIKey != "" {
			hasKey = "Set (hidden for security)"
		}
		fmt.Fprintf(w, "%sAPI Key: %s\n", indent, hasKey)
	} else {
		fmt.Fprintf(w, "%sEndpoint: %s\n", indent, profile.Endpoint)
	}
	fmt.Fprintf(w, "%sSession: %s\n", indent, profile.SessionID)
}

var listProfilesCmd = &cobra.Command{
	Use:   "list",
	Short: "List all profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Active Profile: %s\n\n", cfg.ActiveProfile)
		fmt.Fprintln(out, "Available Profiles:")
		for _, name := range cfg.ProfileNames() {
			marker := ""
			if name == cfg.ActiveProfile {
				marker = " (active)"
			}
			fmt.Fprintf(out, "  %s%s\n", name, marker)
			printProfile(out, "    ", cfg.Profiles[name])
			fmt.Fprintln(out)
		}
		return nil
	},
}

var showProfileCmd = &cobra.Command{
	Use:   "show [profile-name]",
	Short: "Show profile details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		name := args[0]
		profile, exists := cfg.Profiles[name]
		if !exists {
			return fmt.Errorf("profile '%s' does not exist", name)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Profile: %s\n", name)
		printProfile(cmd.OutOrStdout(), "", profile)
		return nil
	},
}

// promptProfile asks for every field not given on the command line.
func promptProfile(cmd *cobra.Command, profile config.Profile) (config.Profile, error) {
	flags := cmd.Flags()
	var err error

	if !flags.Changed("backend") {
		sel := promptui.Select{
			Label: "Backend",
			Items: []string{config.BackendService, config.BackendOpenAI},
		}
		if profile.Backend == config.BackendOpenAI {
			sel.CursorPos = 1
		}
		if _, profile.Backend, err = sel.Run(); err != nil {
			return profile, fmt.Errorf("selection failed: %w", err)
		}
	}

	prompts := []struct {
		flag   string
		label  string
		target *string
		mask   rune
		openai bool
	}{
		{flag: "endpoint", label: "Chat endpoint", target: &profile.Endpoint},
		{flag: "session", label: "Session id", target: &profile.SessionID},
		{flag: "api-key", label: "API Key", target: &profile.APIKey, mask: '*', openai: true},
		{flag: "model", label: "Model", target: &profile.Model, openai: true},
		{flag: "base-url", label: "Base URL (optional)", target: &profile.BaseURL, openai: true},
	}
	for _, p := range prompts {
		if flags.Changed(p.flag) || (p.openai && profile.Backend != config.BackendOpenAI) {
			continue
		}
		prompt := promptui.Prompt{Label: p.label, Default: *p.target, Mask: p.mask}
		if *p.target, err = prompt.Run(); err != nil {
			return profile, fmt.Errorf("prompt failed: %w", err)
		}
	}
	return profile, nil
}

// applyProfileFlags copies explicitly set flags over profile.
func applyProfileFlags(cmd *cobra.Command, profile config.Profile) config.Profile {
	flags := cmd.Flags()
	if flags.Changed("backend") {
		profile.Backend = profileFields.Backend
	}
	if flags.Changed("endpoint") {
		profile.Endpoint = profileFields.Endpoint
	}
	if flags.Changed("session") {
		profile.SessionID = profileFields.SessionID
	}
	if flags.Changed("api-key") {
		profile.APIKey = profileFields.APIKey
	}
	if flags.Changed("model") {
		profile.Model = profileFields.Model
	}
	if flags.Changed("base-url") {
		profile.BaseURL = profileFields.BaseURL
	}
	return profile
}

func validateBackend(profile config.Profile) error {
	switch profile.Backend {
	case "", config.BackendService, config.BackendOpenAI:
		return nil
	}
	return fmt.Errorf("unknown backend %q (supported: %s, %s)", profile.Backend, config.BackendService, config.BackendOpenAI)
}

// selectProfile resolves the profile name from args or an interactive picker.
func selectProfile(cfg *config.Config, args []string, label string, exclude string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}

	var names []string
	for _, name := range cfg.ProfileNames() {
		if name != exclude {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return "", errors.New("no profiles available")
	}

	prompt := promptui.Select{Label: label, Items: names}
	_, name, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("selection failed: %w", err)
	}
	return name, nil
}

var addProfileCmd = &cobra.Command{
	Use:   "add [profile-name]",
	Short: "Add a new profile",
	Long: `Add a new profile. Fields passed as flags are not prompted for, so
"profile add staging --backend service --endpoint URL --session ID" runs
without any prompts.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		var name string
		if len(args) > 0 {
			name = args[0]
		} else {
			prompt := promptui.Prompt{Label: "Profile name"}
			if name, err = prompt.Run(); err != nil {
				return fmt.Errorf("prompt failed: %w", err)
			}
		}

		if _, exists := cfg.Profiles[name]; exists {
			return fmt.Errorf("profile '%s' already exists", name)
		}

		profile := applyProfileFlags(cmd, config.DefaultProfile())
		if profile, err = promptProfile(cmd, profile); err != nil {
			return err
		}
		if err := validateBackend(profile); err != nil {
			return err
		}

		cfg.Profiles[name] = profile
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Profile '%s' added successfully!\n", name)
		return nil
	},
}

var editProfileCmd = &cobra.Command{
	Use:   "edit [profile-name]",
	Short: "Edit an existing profile",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		name, err := selectProfile(cfg, args, "Select profile to edit", "")
		if err != nil {
			return err
		}
		profile, exists := cfg.Profiles[name]
		if !exists {
			return fmt.Errorf("profile '%s' does not exist", name)
		}

		profile = applyProfileFlags(cmd, profile)
		if profile, err = promptProfile(cmd, profile); err != nil {
			return err
		}
		if err := validateBackend(profile); err != nil {
			return err
		}

		cfg.Profiles[name] = profile
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Profile '%s' updated successfully!\n", name)
		return nil
	},
}

var deleteProfileCmd = &cobra.Command{
	Use:   "delete [profile-name]",
	Short: "Delete a profile",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		name, err := selectProfile(cfg, args, "Select profile to delete", "")
		if err != nil {
			return err
		}
		if _, exists := cfg.Profiles[name]; !exists {
			return fmt.Errorf("profile '%s' does not exist", name)
		}

		if !forceDelete {
			confirm := promptui.Prompt{
				Label:     fmt.Sprintf("Delete profile '%s'", name),
				IsConfirm: true,
			}
			if _, err := confirm.Run(); err != nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Deletion cancelled")
				return nil
			}
		}

		delete(cfg.Profiles, name)
		if len(cfg.Profiles) == 0 {
			cfg.Profiles["default"] = config.DefaultProfile()
		}
		if cfg.ActiveProfile == name {
			cfg.ActiveProfile = cfg.ProfileNames()[0]
		}

		if err := cfg.Save(); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Profile '%s' deleted successfully!\n", name)
		return nil
	},
}

var switchProfileCmd = &cobra.Command{
	Use:   "switch [profile-name]",
	Short: "Switch to a different profile",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		name, err := selectProfile(cfg, args, "Select profile to switch to", cfg.ActiveProfile)
		if err != nil {
			return err
		}
		if err := cfg.UseProfile(name); err != nil {
			return err
		}
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Switched to profile '%s'\n", name)
		return nil
	},
}

func addProfileFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&profileFields.Backend, "backend", "", "Backend: service or openai")
	flags.StringVar(&profileFields.Endpoint, "endpoint", "", "Assistant service chat endpoint")
	flags.StringVar(&profileFields.SessionID, "session", "", "Conversation id")
	flags.StringVar(&profileFields.APIKey, "api-key", "", "OpenAI API key (openai backend)")
	flags.StringVar(&profileFields.Model, "model", "", "Model (openai backend)")
	flags.StringVar(&profileFields.BaseURL, "base-url", "", "OpenAI-compatible base URL (openai backend)")
}

func init() {
	addProfileFlags(addProfileCmd)
	addProfileFlags(editProfileCmd)
	deleteProfileCmd.Flags().BoolVarP(&forceDelete, "force", "f", false, "Delete without confirmation")

	profileCmd.AddCommand(listProfilesCmd)
	profileCmd.AddCommand(showProfileCmd)
	profileCmd.AddCommand(addProfileCmd)
	profileCmd.AddCommand(editProfileCmd)
	profileCmd.AddCommand(deleteProfileCmd)
	profileCmd.AddCommand(switchProfileCmd)
}
