// Copyright © 2018 One Concern

package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "projar",
	Short: "projar moves projects between archives and persistent project filesystems",
	Long: `projar imports ZIP, TAR and TAR.GZ archives into persistent per-project filesystems,
and exports them back as archives.

Archive formats are detected from their content. A single folder wrapping all the files
of an archive is stripped on import, and the project is classified as a visual (blocks)
or a code project.
`,
}

var config *CLIConfig

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		osExit(1)
	}
}

func init() {
	log.SetFlags(0)
	cobra.OnInitialize(initConfig)

	addLogLevelFlag(rootCmd)
	addStoreFlag(rootCmd)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	setConfigDefaults(viper.GetViper())
	if os.Getenv("PROJAR_CONFIG") != "" {
		// Use config file from the environment.
		viper.SetConfigFile(os.Getenv("PROJAR_CONFIG"))
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.projar")
		viper.SetConfigName("projar")
	}

	viper.SetEnvPrefix("projar")
	viper.AutomaticEnv() // read in environment variables that match
	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		log.Println("Using config file:", viper.ConfigFileUsed())
	}
	var err error
	config, err = newConfig()
	if err != nil {
		wrapFatalln("read config", err)
		return
	}
	config.setProjarParams(&projarFlags)
}
