package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"

	"github.com/oneconcern/projar/pkg/archive"
	"github.com/oneconcern/projar/pkg/source"
)

// CLIConfig describes the CLI configuration.
type CLIConfig struct {
	// keep names of fields the same as the serialized names for viper
	Store       string          `json:"store" yaml:"store"`             // Base directory of project stores, or "memory"
	LogLevel    string          `json:"loglevel" yaml:"loglevel"`       // Log level
	Compression int             `json:"compression" yaml:"compression"` // Deflate level of exported archives
	Namespace   string          `json:"namespace" yaml:"namespace"`     // Manifest section describing the project
	VisualTag   string          `json:"visualtag" yaml:"visualtag"`     // Manifest project type of visual projects
	S3          source.S3Config `json:"s3" yaml:"s3"`                   // S3 settings for s3:// sources
}

func setConfigDefaults(v *viper.Viper) {
	v.SetDefault("store", filepath.Join(".projar", "store"))
	v.SetDefault("loglevel", "info")
	v.SetDefault("compression", archive.DefaultCompressionLevel)
	v.SetDefault("namespace", archive.DefaultNamespace)
	v.SetDefault("visualtag", archive.DefaultVisualTag)
}

func newConfig() (*CLIConfig, error) {
	var config CLIConfig
	err := viper.Unmarshal(&config)
	if err != nil {
		return nil, err
	}
	return &config, nil
}

// setProjarParams fills flags left unset on the command line
func (c *CLIConfig) setProjarParams(flags *flagsT) {
	if flags.root.store == "" {
		flags.root.store = c.Store
	}
	if flags.root.logLevel == "" {
		flags.root.logLevel = c.LogLevel
	}
}

// configCmd represents the config related commands
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Commands to manage a config",
	Long: `Commands to manage projar CLI config.

Configuration for projar is the common set of flags that are needed for most commands and do not change across runs.`,
}

var configGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a config",
	Long:  "Generate a config file for projar, with the current settings. Defaults to $HOME/.projar/projar.yaml",
	Run: func(cmd *cobra.Command, args []string) {
		target := projarFlags.config.out
		if target == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				wrapFatalln("could not get home directory for user", err)
				return
			}
			target = filepath.Join(home, ".projar", "projar.yaml")
		}

		c := *config
		c.Store = projarFlags.root.store
		c.LogLevel = projarFlags.root.logLevel
		o, err := yaml.Marshal(c)
		if err != nil {
			wrapFatalln("serialize config to yaml", err)
			return
		}
		if err = os.MkdirAll(filepath.Dir(target), 0o700); err != nil {
			wrapFatalln("create config directory", err)
			return
		}
		if err = os.WriteFile(target, o, 0o600); err != nil {
			wrapFatalln("write config file", err)
			return
		}
		infoLogger.Printf("config written to %s", target)
	},
}

func init() {
	addConfigOutFlag(configGenerateCmd)

	configCmd.AddCommand(configGenerateCmd)
	rootCmd.AddCommand(configCmd)
}
