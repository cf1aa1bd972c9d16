package config

import (
	"os"

	"github.com/joho/godotenv"
)

// MockServer configures the local stub assistant service.
type MockServer struct {
	Addr          string
	AllowedOrigin string
	RulesPath     string // empty means the built-in rules
}

func LoadMockServer() MockServer {
	_ = godotenv.Load()
	return MockServer{
		Addr:          getEnvDefault("BOOKLYDESK_MOCK_ADDR", ":8000"),
		AllowedOrigin: getEnvDefault("ALLOWED_ORIGIN", "*"),
		RulesPath:     os.Getenv("BOOKLYDESK_MOCK_RULES"),
	}
}
