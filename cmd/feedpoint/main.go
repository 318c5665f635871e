package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/streetpaws/feedpoint/botapp"
	corecmd "github.com/streetpaws/feedpoint/core/cmd"
)

func main() {
	// Local development convenience; in production the variables come
	// from the environment directly.
	_ = godotenv.Load()

	err := corecmd.Run(corecmd.Options{
		ConfigEnvVar:      "CONFIG_PATH",
		DefaultConfigPath: "config.yaml",
		LoadConfig: func(path string) (corecmd.ConfigCarrier, error) {
			return botapp.LoadConfig(path)
		},
		Bootstrap: func(cfg corecmd.ConfigCarrier) (corecmd.TelegramApp, error) {
			appCfg, ok := cfg.(*botapp.Config)
			if !ok {
				return nil, botapp.ErrBadConfigType
			}
			return botapp.Bootstrap(appCfg)
		},
	})
	if err != nil {
		log.Fatalf("feedpoint: %v", err)
	}
}
