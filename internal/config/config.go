package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	ServerPort string
	GinMode    string
	LogLevel   string
	LogFormat  string

	// Chainhook webhook API. The key rides in the URL path, the secret in a
	// header, and HookNetwork selects which chain the collection anchors to.
	HookBaseURL    string
	HookAPIKey     string
	HookAPISecret  string
	HookNetwork    string
	HookCollection string

	// Certificate generation.
	TemplateDir     string
	DefaultTemplate string
	FontFamily      string
	FooterText      string
	TmpDir          string
	RenderTimeout   time.Duration

	// QuizPath points at the quiz definition JSON. A missing file falls back
	// to the built-in demo quiz.
	QuizPath string

	// AllowedOrigins controls HTTP CORS validation.
	// Empty slice means all origins are permitted (dev default).
	AllowedOrigins []string
}

// Load reads configuration from environment variables with sensible defaults.
// It loads .env file if present but does not fail if missing.
func Load() *Config {
	_ = godotenv.Load() // Ignore error — .env is optional

	return &Config{
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		GinMode:         getEnv("GIN_MODE", "debug"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", "pretty"),
		HookBaseURL:     getEnv("HOOK_BASE_URL", "https://api.chainletter.link"),
		HookAPIKey:      getEnv("HOOK_API_KEY", ""),
		HookAPISecret:   getEnv("HOOK_API_SECRET", ""),
		HookNetwork:     getEnv("HOOK_NETWORK", "devnet"),
		HookCollection:  getEnv("HOOK_COLLECTION", "solquiz-certificates"),
		TemplateDir:     getEnv("TEMPLATE_DIR", "./templates"),
		DefaultTemplate: getEnv("DEFAULT_TEMPLATE", ""),
		FontFamily:      getEnv("FONT_FAMILY", ""),
		FooterText:      getEnv("FOOTER_TEXT", "Verified on-chain via Chainletter"),
		TmpDir:          getEnv("TMP_DIR", os.TempDir()),
		RenderTimeout:   time.Duration(getEnvInt("RENDER_TIMEOUT_MS", 10000)) * time.Millisecond,
		QuizPath:        getEnv("QUIZ_PATH", "./quiz.json"),
		AllowedOrigins:  parseOrigins(getEnv("ALLOWED_ORIGINS", "")),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// parseOrigins splits a comma-separated origins string into a trimmed slice.
// Returns nil (allow-all) if the input is empty.
func parseOrigins(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
