// Package flags holds the global CLI flags shared by every tisseltassel command.
package flags

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/pflag"
)

const (
	// EnvVarConfigFile overrides the default config file location.
	EnvVarConfigFile = "TISSELTASSEL_CONFIG_FILE"

	// EnvVarLogPath enables logging to the given file.
	EnvVarLogPath = "TISSELTASSEL_LOG_PATH"

	// EnvVarLogLevel sets the log level.
	EnvVarLogLevel = "TISSELTASSEL_LOG_LEVEL"
)

const (
	DefaultConfigFile = ".tisseltassel.toml"
	DefaultLogPath    = ""
	DefaultLogLevel   = "info"
)

const (
	FlagNameConfigFile = "config-file"
	FlagNameLogPath    = "log-path"
	FlagNameLogLevel   = "log-level"
)

var (
	// ConfigFile is the path to the gateway configuration file.
	ConfigFile string

	// LogPath is the file logs are appended to, logging is disabled when empty.
	LogPath string

	// LogLevel is one of ValidLogLevels.
	LogLevel string
)

// ValidLogLevels returns the log levels accepted by --log-level.
func ValidLogLevels() []string {
	return []string{"trace", "debug", "info", "warn", "error", "off"}
}

// InitFlags registers the global flags on fs, using environment variables for their defaults.
func InitFlags(fs *pflag.FlagSet) {
	initConfigFile(fs)
	initLogger(fs)
}

// ValidateFlags checks the values of global flags after parsing.
func ValidateFlags() error {
	if !slices.Contains(ValidLogLevels(), strings.ToLower(strings.TrimSpace(LogLevel))) {
		return fmt.Errorf(
			"invalid log level '%s', must be one of %s",
			LogLevel,
			strings.Join(ValidLogLevels(), ", "),
		)
	}
	return nil
}

func initConfigFile(fs *pflag.FlagSet) {
	if ConfigFile == "" {
		if env := strings.TrimSpace(os.Getenv(EnvVarConfigFile)); env != "" {
			ConfigFile = env
		} else {
			ConfigFile = DefaultConfigFile
		}
	}
	fs.StringVar(
		&ConfigFile,
		FlagNameConfigFile,
		ConfigFile,
		fmt.Sprintf("path to config file (env: %s)", EnvVarConfigFile),
	)
}

func initLogger(fs *pflag.FlagSet) {
	if LogPath == "" {
		if env := strings.TrimSpace(os.Getenv(EnvVarLogPath)); env != "" {
			LogPath = env
		} else {
			LogPath = DefaultLogPath
		}
	}
	fs.StringVar(
		&LogPath,
		FlagNameLogPath,
		LogPath,
		fmt.Sprintf("path to log file, logging is disabled when empty (env: %s)", EnvVarLogPath),
	)

	if LogLevel == "" {
		if env := strings.TrimSpace(os.Getenv(EnvVarLogLevel)); env != "" {
			LogLevel = strings.ToLower(env)
		} else {
			LogLevel = DefaultLogLevel
		}
	}
	fs.StringVar(
		&LogLevel,
		FlagNameLogLevel,
		LogLevel,
		fmt.Sprintf("log level, one of: %s (env: %s)", strings.Join(ValidLogLevels(), ", "), EnvVarLogLevel),
	)
}
