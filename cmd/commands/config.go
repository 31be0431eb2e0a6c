package commands

import "github.com/harrybrwn/hackbright/cmd/internal/shell"

// DefaultDatabase is used when no database url is configured.
const DefaultDatabase = "postgres:///hackbright?sslmode=disable"

// Conf is the configuration read from config.yml.
var Conf = &Config{
	Prompt:   shell.DefaultPrompt,
	LogLevel: "info",
}

// Config holds the configuration file's contents.
type Config struct {
	Database struct {
		URL string `yaml:"url"`
	} `yaml:"database"`

	Prompt   string `yaml:"prompt"`
	Editor   string `yaml:"editor"`
	LogLevel string `yaml:"log_level"`
}
