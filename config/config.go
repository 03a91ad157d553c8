package config

import (
	"os"
	"strings"
)

// AppConfig is the server-level configuration, read once at startup. The
// ledger client reads its own credentials from the environment; everything
// transient (sessions, batches) needs no storage configuration at all.
type AppConfig struct {
	Port           string
	FrontendURL    string
	AllowedOrigins []string
}

// Load reads the configuration from the environment with local-dev defaults.
func Load() AppConfig {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	frontendURL := os.Getenv("FRONTEND_URL")
	if frontendURL == "" {
		frontendURL = "http://localhost:3000"
	}

	origins := []string{frontendURL}
	if extra := os.Getenv("EXTRA_ORIGINS"); extra != "" {
		for _, origin := range strings.Split(extra, ",") {
			origin = strings.TrimSpace(origin)
			if origin != "" {
				origins = append(origins, origin)
			}
		}
	}

	return AppConfig{
		Port:           port,
		FrontendURL:    frontendURL,
		AllowedOrigins: origins,
	}
}
