package config

import (
	"errors"
	"fmt"
	"github.com/meysamhadeli/sandkit/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config represents the structure of the configuration file
type Config struct {
	Version            string            `mapstructure:"version"`
	Theme              string            `mapstructure:"theme"`
	LogLevel           string            `mapstructure:"log_level"`
	LogJSON            bool              `mapstructure:"log_json"`
	ReportsDirectory   string            `mapstructure:"reports_directory"`
	ReportDirMode      string            `mapstructure:"report_dir_mode"`
	DefaultExtension   string            `mapstructure:"default_extension"`
	HashBlockSize      int               `mapstructure:"hash_block_size"`
	MinGoVersion       string            `mapstructure:"min_go_version"`
	DestinationFolders map[string]string `mapstructure:"destination_folders"`
}

// DefaultConfig values
var DefaultConfig = Config{
	Version:          "0.3.0",
	Theme:            "dracula",
	LogLevel:         "info",
	LogJSON:          false,
	ReportsDirectory: "reports",
	// 0444 reproduces the legacy read-only mode bits; report writes then fail for non-root users.
	ReportDirMode:      "0755",
	DefaultExtension:   ".exe",
	HashBlockSize:      64 * 1024,
	MinGoVersion:       utils.DefaultMinGoVersion,
	DestinationFolders: utils.DefaultFolderMap,
}

const configName = "sandkit-config"

// cfgFile holds the path to the configuration file (set via CLI)
var cfgFile string

// LoadConfigs initializes the configuration from file, flags, and environment variables, and returns the final config.
// A missing default config file is not an error; a missing or broken file passed with --config is.
func LoadConfigs(rootCmd *cobra.Command, cwd string) (*Config, error) {
	return loadConfigs(viper.New(), rootCmd, cwd, cfgFile)
}

func loadConfigs(v *viper.Viper, rootCmd *cobra.Command, cwd string, file string) (*Config, error) {
	var config *Config

	// Set default values using Viper
	setDefaults(v)

	// Explicitly bind environment variables to config keys
	bindEnv(v)

	if file != "" {
		v.SetConfigFile(file)
		if fileType := GetConfigFileType(file); fileType != "" {
			v.SetConfigType(fileType)
		}
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	} else {
		// Look for configuration files in the current working directory
		v.SetConfigName(configName)
		v.AddConfigPath(cwd)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	// Bind CLI flags to override config values
	if rootCmd != nil {
		bindFlags(v, rootCmd)
	}

	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if _, err := config.DirMode(); err != nil {
		return nil, err
	}

	return config, nil
}

// setDefaults sets all default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("version", DefaultConfig.Version)
	v.SetDefault("theme", DefaultConfig.Theme)
	v.SetDefault("log_level", DefaultConfig.LogLevel)
	v.SetDefault("log_json", DefaultConfig.LogJSON)
	v.SetDefault("reports_directory", DefaultConfig.ReportsDirectory)
	v.SetDefault("report_dir_mode", DefaultConfig.ReportDirMode)
	v.SetDefault("default_extension", DefaultConfig.DefaultExtension)
	v.SetDefault("hash_block_size", DefaultConfig.HashBlockSize)
	v.SetDefault("min_go_version", DefaultConfig.MinGoVersion)
	for name, template := range DefaultConfig.DestinationFolders {
		v.SetDefault("destination_folders."+name, template)
	}
}

// bindEnv explicitly binds environment variables to configuration keys
func bindEnv(v *viper.Viper) {
	_ = v.BindEnv("theme", "SANDKIT_THEME")
	_ = v.BindEnv("log_level", "SANDKIT_LOG_LEVEL")
	_ = v.BindEnv("log_json", "SANDKIT_LOG_JSON")
	_ = v.BindEnv("reports_directory", "SANDKIT_REPORTS_DIRECTORY")
	_ = v.BindEnv("report_dir_mode", "SANDKIT_REPORT_DIR_MODE")
	_ = v.BindEnv("default_extension", "SANDKIT_DEFAULT_EXTENSION")
	_ = v.BindEnv("hash_block_size", "SANDKIT_HASH_BLOCK_SIZE")
	_ = v.BindEnv("min_go_version", "SANDKIT_MIN_GO_VERSION")
}

// bindFlags binds the CLI flags to configuration values.
func bindFlags(v *viper.Viper, rootCmd *cobra.Command) {
	flags := rootCmd.PersistentFlags()
	for key, flag := range map[string]string{
		"theme":             "theme",
		"log_level":         "log_level",
		"log_json":          "log_json",
		"reports_directory": "reports_directory",
		"report_dir_mode":   "report_dir_mode",
		"default_extension": "default_extension",
	} {
		if f := flags.Lookup(flag); f != nil {
			_ = v.BindPFlag(key, f)
		}
	}
}

// InitFlags initializes the flags for the root command.
func InitFlags(rootCmd *cobra.Command) {
	// Use PersistentFlags so that these flags are available in all subcommands
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Specifies the path to a configuration file (JSON or YAML).")

	rootCmd.PersistentFlags().String("theme", DefaultConfig.Theme, "Chroma theme used by 'report show' (e.g., 'dracula', 'monokai', 'github').")
	rootCmd.PersistentFlags().String("log_level", DefaultConfig.LogLevel, "Log level: 'debug', 'info', 'warn', 'error' or 'disabled'.")
	rootCmd.PersistentFlags().Bool("log_json", DefaultConfig.LogJSON, "Emit log lines as JSON.")
	rootCmd.PersistentFlags().String("reports_directory", DefaultConfig.ReportsDirectory, "Directory holding one report folder per sample SHA-256.")
	rootCmd.PersistentFlags().String("report_dir_mode", DefaultConfig.ReportDirMode, "Octal permission bits for newly created report folders.")
	rootCmd.PersistentFlags().String("default_extension", DefaultConfig.DefaultExtension, "Extension used for randomized names when the sample has none.")

	// Version flag
	rootCmd.Flags().BoolP("version", "v", false, "Specifies the version of the application.")
}

// DirMode parses ReportDirMode as octal permission bits.
func (c *Config) DirMode() (os.FileMode, error) {
	mode, err := strconv.ParseUint(strings.TrimSpace(c.ReportDirMode), 8, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid report_dir_mode %q: %w", c.ReportDirMode, err)
	}
	if mode > 0o777 {
		return 0, fmt.Errorf("invalid report_dir_mode %q: only permission bits are allowed", c.ReportDirMode)
	}
	return os.FileMode(mode), nil
}

// FolderMap returns the destination folder layout used for randomized names.
func (c *Config) FolderMap() utils.FolderMap {
	if len(c.DestinationFolders) == 0 {
		return utils.DefaultFolderMap
	}
	folders := make(utils.FolderMap, len(c.DestinationFolders))
	for name, template := range c.DestinationFolders {
		folders[strings.ToLower(name)] = template
	}
	return folders
}

// GetConfigFileType returns the type of the configuration file based on its extension
func GetConfigFileType(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json":
		return "json"
	case ".yaml", ".yml":
		return "yaml"
	}
	return ""
}
