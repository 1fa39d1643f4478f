package configs

import (
	"flag"
	"os"

	"github.com/classpulse/classpulse/internal/infrastructure/env"
)

// DetermineConfigPath resolves the config file location from the --config
// flag, the CLASSPULSE_CONFIG env var, then a list of conventional
// candidates. A missing config is not an error: the caller falls back to
// built-in defaults and keeps running.
func DetermineConfigPath() string {
	var configPath string

	flag.StringVar(&configPath, "config", "", "path to config file")
	flag.Parse()

	if configPath == "" {
		configPath = env.GetString("CLASSPULSE_CONFIG", "")
	}

	if configPath == "" {
		candidates := []string{
			"./config.yaml",
			"./config.yml",
			"/etc/classpulse/config.yaml",
			"/app/config.yaml", // common in Docker
		}

		for _, p := range candidates {
			if _, err := os.Stat(p); err == nil {
				configPath = p
				break
			}
		}
	}

	return configPath
}
