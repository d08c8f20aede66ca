package config

import (
	"os"
	"time"
)

// AIConfig holds the remote feedback service settings. The service is the
// Gemini generateContent API; with no key configured every submission takes
// the local-fallback path.
type AIConfig struct {
	APIKey  string        `json:"-"` // Never serialize
	BaseURL string        `json:"baseUrl"`
	Model   string        `json:"model"`
	Timeout time.Duration `json:"timeout"`
}

// DefaultAIConfig returns the AI configuration from the environment.
func DefaultAIConfig() *AIConfig {
	cfg := &AIConfig{
		APIKey:  os.Getenv("GEMINI_API_KEY"),
		BaseURL: getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta/models"),
		Model:   getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		// One synchronous attempt per submission on a user-interactive path;
		// the timeout is the whole failure budget, expiry means fallback.
		Timeout: 12 * time.Second,
	}
	if v := os.Getenv("GEMINI_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Timeout = d
		}
	}
	return cfg
}

// IsEnabled returns true if a remote-service credential is configured.
func (c *AIConfig) IsEnabled() bool {
	return c.APIKey != ""
}

// Endpoint returns the full generateContent endpoint for the model.
func (c *AIConfig) Endpoint() string {
	return c.BaseURL + "/" + c.Model + ":generateContent"
}
