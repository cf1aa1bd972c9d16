package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
)

const (
	BackendService = "service"
	BackendOpenAI  = "openai"

	DefaultEndpoint  = "http://localhost:8000/chat"
	DefaultSessionID = "web-session"
	DefaultModel     = "gpt-4o-mini"
)

type Profile struct {
	Endpoint  string `json:"endpoint"`
	SessionID string `json:"session_id"`
	Backend   string `json:"backend,omitempty"`
	APIKey    string `json:"api_key,omitempty"`
	BaseURL   string `json:"base_url,omitempty"`
	Model     string `json:"model,omitempty"`
}

type Config struct {
	Profiles       map[string]Profile `json:"profiles"`
	ActiveProfile  string             `json:"active_profile"`
	currentProfile *Profile
}

// LoadConfig reads the profile file, creating a default one on first run, and layers
// environment overrides (including a local .env) over the active profile. Overrides
// are never written back by Save.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	configPath, err := getConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}

	if err := ensureConfigDir(configPath); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	config, err := loadConfigFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := config.setCurrentProfile(); err != nil {
		return nil, fmt.Errorf("failed to set current profile: %w", err)
	}
	config.applyEnv()

	return config, nil
}

// UseProfile makes name the active profile for this process.
func (c *Config) UseProfile(name string) error {
	if _, exists := c.Profiles[name]; !exists {
		return fmt.Errorf("profile '%s' does not exist", name)
	}
	c.ActiveProfile = name
	if err := c.setCurrentProfile(); err != nil {
		return err
	}
	c.applyEnv()
	return nil
}

// Override replaces the endpoint and session of the active profile for this process;
// empty values are ignored.
func (c *Config) Override(endpoint, sessionID string) {
	if c.currentProfile == nil {
		return
	}
	if endpoint != "" {
		c.currentProfile.Endpoint = endpoint
	}
	if sessionID != "" {
		c.currentProfile.SessionID = sessionID
	}
}

func (c *Config) IsValid() bool {
	if c.currentProfile == nil {
		return false
	}
	if c.GetBackend() == BackendOpenAI {
		return c.currentProfile.APIKey != ""
	}
	return c.GetEndpoint() != ""
}

func (c *Config) GetEndpoint() string {
	if c.currentProfile == nil || c.currentProfile.Endpoint == "" {
		return DefaultEndpoint
	}
	return c.currentProfile.Endpoint
}

func (c *Config) GetSessionID() string {
	if c.currentProfile == nil || c.currentProfile.SessionID == "" {
		return DefaultSessionID
	}
	return c.currentProfile.SessionID
}

func (c *Config) GetBackend() string {
	if c.currentProfile == nil || c.currentProfile.Backend == "" {
		return BackendService
	}
	return strings.ToLower(c.currentProfile.Backend)
}

func (c *Config) GetAPIKey() string {
	if c.currentProfile == nil {
		return ""
	}
	return c.currentProfile.APIKey
}

func (c *Config) GetModel() string {
	if c.currentProfile == nil || c.currentProfile.Model == "" {
		return DefaultModel
	}
	return c.currentProfile.Model
}

func (c *Config) GetBaseURL() string {
	if c.currentProfile == nil {
		return ""
	}
	return c.currentProfile.BaseURL
}

// Dir is the directory holding config.json and the log file.
func Dir() (string, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return "", err
	}
	return filepath.Dir(configPath), nil
}

func LogPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "booklydesk.log"), nil
}

func getConfigPath() (string, error) {
	var configDir string

	// Use BOOKLYDESK_HOME if set, otherwise use user's home directory
	if home := os.Getenv("BOOKLYDESK_HOME"); home != "" {
		configDir = home
	} else {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = homeDir
	}

	return filepath.Join(configDir, ".booklydesk", "config.json"), nil
}

func ensureConfigDir(configPath string) error {
	return os.MkdirAll(filepath.Dir(configPath), 0755)
}

func loadConfigFile(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return createDefaultConfig(configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	return &config, nil
}

func DefaultProfile() Profile {
	return Profile{
		Endpoint:  DefaultEndpoint,
		SessionID: DefaultSessionID,
		Backend:   BackendService,
		Model:     DefaultModel,
	}
}

func createDefaultConfig(configPath string) (*Config, error) {
	config := &Config{
		Profiles: map[string]Profile{
			"default": DefaultProfile(),
		},
		ActiveProfile: "default",
	}

	if err := saveConfig(config, configPath); err != nil {
		return nil, err
	}

	return config, nil
}

func saveConfig(config *Config, configPath string) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0600)
}

func (c *Config) Save() error {
	configPath, err := getConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	return saveConfig(c, configPath)
}

func (c *Config) setCurrentProfile() error {
	if len(c.Profiles) == 0 {
		return fmt.Errorf("no profiles defined")
	}

	profile, exists := c.Profiles[c.ActiveProfile]
	if !exists {
		// Fall back to the first profile in name order
		names := c.ProfileNames()
		c.ActiveProfile = names[0]
		profile = c.Profiles[names[0]]
	}

	c.currentProfile = &profile
	return nil
}

// ProfileNames returns the profile names in sorted order.
func (c *Config) ProfileNames() []string {
	names := make([]string, 0, len(c.Profiles))
	for name := range c.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (c *Config) applyEnv() {
	p := c.currentProfile
	p.Endpoint = getEnvDefault("BOOKLYDESK_ENDPOINT", p.Endpoint)
	p.SessionID = getEnvDefault("BOOKLYDESK_SESSION", p.SessionID)
	p.Backend = getEnvDefault("BOOKLYDESK_BACKEND", p.Backend)
	p.APIKey = getEnvDefault("OPENAI_API_KEY", p.APIKey)
	p.BaseURL = getEnvDefault("OPENAI_BASE_URL", p.BaseURL)
	p.Model = getEnvDefault("OPENAI_MODEL", p.Model)
}

func getEnvDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
