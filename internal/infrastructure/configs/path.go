package configs

import (
	"flag"
	"os"

	"community-chat/internal/infrastructure/env"
)

// DetermineConfigPath resolves the config file location from the --config
// flag, the CHAT_CONFIG env var, or a set of conventional candidates. An
// empty result means "defaults only", which is a valid way to run.
func DetermineConfigPath() string {
	var configPath string

	flag.StringVar(&configPath, "config", "", "path to config file")
	flag.Parse()

	if configPath == "" {
		configPath = env.GetString("CHAT_CONFIG", "")
	}

	if configPath == "" {
		candidates := []string{
			"./config.yaml",
			"./config.yml",
			"/etc/community-chat/config.yaml",
			"/app/config.yaml",
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
