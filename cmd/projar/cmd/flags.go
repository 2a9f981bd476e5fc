// Copyright © 2018 One Concern

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

type flagsT struct {
	project struct {
		ID   string
		Root string
	}
	source struct {
		URI     string
		MaxSize string
	}
	export struct {
		format string
		out    string
		level  int
	}
	config struct {
		out string
	}
	root struct {
		logLevel string
		store    string
	}
}

var projarFlags = flagsT{}

func addProjectFlag(cmd *cobra.Command) string {
	project := "project"
	cmd.Flags().StringVar(&projarFlags.project.ID, project, "", "The identifier of the project")
	return project
}

func addRootFlag(cmd *cobra.Command, usage string) string {
	root := "root"
	cmd.Flags().StringVar(&projarFlags.project.Root, root, "", usage)
	return root
}

func addSourceFlag(cmd *cobra.Command) string {
	src := "source"
	cmd.Flags().StringVar(&projarFlags.source.URI, src, "",
		"The archive to import: a local path, a file://, http(s):// or s3://<bucket>/<key> URI, or '-' for stdin")
	return src
}

func addMaxSizeFlag(cmd *cobra.Command) string {
	maxSize := "max-size"
	cmd.Flags().StringVar(&projarFlags.source.MaxSize, maxSize, "1GiB", "The maximum size of an imported archive (e.g. 500MiB)")
	return maxSize
}

func addFormatFlag(cmd *cobra.Command) string {
	format := "format"
	cmd.Flags().StringVar(&projarFlags.export.format, format, "zip", "The archive format: zip, tgz or tar")
	return format
}

func addOutFlag(cmd *cobra.Command) string {
	out := "out"
	cmd.Flags().StringVar(&projarFlags.export.out, out, "", "The file to write the archive to. Defaults to <project>.<format>")
	return out
}

const compressionFlag = "compression"

func addCompressionFlag(cmd *cobra.Command) string {
	cmd.Flags().IntVar(&projarFlags.export.level, compressionFlag, 9,
		"The deflate level of the archive, from -2 (huffman only) to 9 (best compression). Overrides the config")
	return compressionFlag
}

func addConfigOutFlag(cmd *cobra.Command) string {
	out := "out"
	cmd.Flags().StringVar(&projarFlags.config.out, out, "", "The file to write the config to")
	return out
}

func addLogLevelFlag(cmd *cobra.Command) string {
	logLevel := "loglevel"
	cmd.PersistentFlags().StringVar(&projarFlags.root.logLevel, logLevel, "", "The logging level: debug, info, warn, error or none")
	return logLevel
}

func addStoreFlag(cmd *cobra.Command) string {
	store := "store"
	cmd.PersistentFlags().StringVar(&projarFlags.root.store, store, "",
		`The base directory of project stores. Use "memory" for a throw-away session`)
	return store
}

func requireFlags(cmd *cobra.Command, flags ...string) {
	for _, flag := range flags {
		err := cmd.MarkFlagRequired(flag)
		if err != nil {
			err = cmd.MarkPersistentFlagRequired(flag)
		}
		if err != nil {
			wrapFatalln(fmt.Sprintf("error attempting to mark the required flag %q", flag), err)
			return
		}
	}
}
