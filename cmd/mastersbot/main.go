// Command mastersbot runs the masters catalogue bot.
package main

import (
	"log"

	corecmd "github.com/citygreen/mastersbot/core/cmd"
	"github.com/citygreen/mastersbot/internal/app"
	"github.com/citygreen/mastersbot/internal/config"
)

func main() {
	err := corecmd.Run(corecmd.Options{
		ConfigEnvVar:      "CONFIG_PATH",
		DefaultConfigPath: "configs/config.yaml",
		LoadConfig: func(path string) (corecmd.ConfigCarrier, error) {
			return config.Load(path)
		},
		Bootstrap: app.Bootstrap,
	})
	if err != nil {
		log.Fatal(err)
	}
}
