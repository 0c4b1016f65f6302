package main

import (
	"os"
	"path/filepath"
	"strings"

	"fininja/ib-tax/cmd/batch"
	"fininja/ib-tax/cmd/generate"
	"fininja/ib-tax/cmd/root"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func init() {
	// Load environment variables silently before any logging happens.
	loadEnvSilently()
	configureLogLevel()

	root.Init()
	root.Cmd.AddCommand(generate.Cmd)
	root.Cmd.AddCommand(batch.Cmd)
}

// loadEnvSilently loads environment variables without logging anything
func loadEnvSilently() {
	envFile := ".env"
	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		envFile = filepath.Join("..", ".env")
		if _, err := os.Stat(envFile); os.IsNotExist(err) {
			return
		}
	}
	_ = godotenv.Load(envFile)
}

func configureLogLevel() {
	levelStr := strings.ToLower(os.Getenv("LOG_LEVEL"))
	if levelStr == "" {
		return
	}
	if level, err := logrus.ParseLevel(levelStr); err == nil {
		root.Log.SetLevel(level)
	}
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		root.Log.Fatal(err)
	}
}
