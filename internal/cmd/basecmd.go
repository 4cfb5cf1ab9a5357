package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/tisseltassel/tisseltassel/internal/config"
	"github.com/tisseltassel/tisseltassel/internal/converter"
	"github.com/tisseltassel/tisseltassel/internal/converter/lastfm"
	"github.com/tisseltassel/tisseltassel/internal/converter/rest"
	"github.com/tisseltassel/tisseltassel/internal/files"
	"github.com/tisseltassel/tisseltassel/internal/flags"
	"github.com/tisseltassel/tisseltassel/internal/perms"
)

// AppName is the name of the binary and the root logger.
const AppName = "tisseltassel"

// UserConfigFileName is the config file looked up in the user configuration directory.
const UserConfigFileName = "config.toml"

var _ converter.Builder = (*BaseCmd)(nil)

// version is set at build time using -ldflags.
var version = "dev"

// Version returns the application version.
func Version() string {
	return version
}

// BaseCmd holds state shared by every command.
type BaseCmd struct {
	logger hclog.Logger
}

// Logger returns the command logger, creating it from the global flags on first use.
func (c *BaseCmd) Logger() (hclog.Logger, error) {
	if c.logger != nil {
		return c.logger, nil
	}

	if err := flags.ValidateFlags(); err != nil {
		return nil, err
	}

	logLevel := strings.ToLower(strings.TrimSpace(flags.LogLevel))
	logPath := strings.TrimSpace(flags.LogPath)

	// Logs are only written when a path is configured.
	var output io.Writer = io.Discard
	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, perms.RegularFile)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file (%s): %w", logPath, err)
		}
		output = f
	}

	c.logger = hclog.New(&hclog.LoggerOptions{
		Name:   AppName,
		Level:  hclog.LevelFromString(logLevel),
		Output: output,
	})

	return c.logger, nil
}

// SetLogger replaces the command logger.
func (c *BaseCmd) SetLogger(logger hclog.Logger) {
	c.logger = logger
}

// RequireTogether returns an error when only some of the named flags were set.
func (c *BaseCmd) RequireTogether(cmd *cobra.Command, flagNames ...string) error {
	var set []string
	for _, name := range flagNames {
		if cmd.Flags().Changed(name) {
			set = append(set, name)
		}
	}

	if len(set) == 0 || len(set) == len(flagNames) {
		return nil
	}

	names := slices.Clone(flagNames)
	slices.Sort(names)

	return fmt.Errorf("flags must be provided together or not at all: (%s)", strings.Join(names, ", "))
}

// LoadConfig loads the configuration file named by the global config file flag.
func (c *BaseCmd) LoadConfig(loader config.Loader) (*config.Config, error) {
	return loader.Load(ConfigFilePath())
}

// ConfigFilePath returns the config file to load.
// When the flag holds the default and no such file exists in the working directory,
// an existing config file in the user configuration directory is used instead.
func ConfigFilePath() string {
	path := flags.ConfigFile
	if path != flags.DefaultConfigFile {
		return path
	}
	if _, err := os.Stat(path); err == nil {
		return path
	}

	dir, err := files.UserSpecificConfigDir()
	if err != nil {
		return path
	}

	userPath := filepath.Join(dir, UserConfigFileName)
	if _, err := os.Stat(userPath); err != nil {
		return path
	}

	return userPath
}

// Build assembles a converter registry from configuration entries using the built-in converter kinds.
func (c *BaseCmd) Build(entries ...config.ConverterEntry) (*converter.Registry, error) {
	factory, err := NewConverterFactory()
	if err != nil {
		return nil, err
	}

	return factory.Build(entries...)
}

// NewConverterFactory returns a factory with every built-in converter kind registered.
func NewConverterFactory() (*converter.Factory, error) {
	factory := converter.NewFactory()

	kinds := map[string]converter.Constructor{
		lastfm.Kind: lastfm.FromEntry,
		rest.Kind:   rest.FromEntry,
	}
	for kind, ctor := range kinds {
		if err := factory.Register(kind, ctor); err != nil {
			return nil, err
		}
	}

	return factory, nil
}
