package cmd

import (
	"context"
	"os"

	units "github.com/docker/go-units"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/oneconcern/projar/pkg/core"
	"github.com/oneconcern/projar/pkg/model"
	"github.com/oneconcern/projar/pkg/source"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import an archive into a project",
	Long: `Import a ZIP, TAR or TAR.GZ archive into the filesystem of a project.

The format of the archive is detected from its content. When all the files of the archive
are wrapped in a single folder, this folder is stripped. Existing files are overwritten.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		l, err := paramsToLogger(projarFlags)
		if err != nil {
			wrapFatalln("set up logger", err)
			return
		}

		var data []byte
		if projarFlags.source.URI == "-" {
			maxSize, err := parseSize(projarFlags.source.MaxSize)
			if err != nil {
				wrapFatalln("parse max size", err)
				return
			}
			data, err = source.FromReader(os.Stdin, maxSize)
			if err != nil {
				wrapFatalln("read archive from stdin", err)
				return
			}
		} else {
			fetcher, err := paramsToFetcher(ctx, projarFlags, config, l)
			if err != nil {
				wrapFatalln("set up source", err)
				return
			}
			data, err = fetcher.Fetch(ctx, projarFlags.source.URI)
			if err != nil {
				wrapFatalln("fetch archive", err)
				return
			}
		}

		mounts, closeMounts := paramsToMounts(projarFlags, l)
		defer func() {
			if err := closeMounts(ctx); err != nil {
				wrapFatalln("close project stores", err)
			}
		}()

		importer := core.NewImporter(mounts,
			core.Logger(l),
			core.ClassifyOptions(configToClassifyOptions(config)...),
		)
		res, err := importer.Import(ctx, projarFlags.project.ID, data, projarFlags.project.Root)
		if err != nil {
			wrapFatalln("import archive", err)
			return
		}

		kind := color.CyanString(res.Type.String())
		if res.Type == model.ProjectVisual {
			kind = color.MagentaString(res.Type.String())
		}
		prefix := res.Prefix
		if prefix == "" {
			prefix = color.HiBlackString("(none)")
		}
		infoLogger.Printf("imported %s project %q from %s archive", kind, res.ProjectID, res.Format)
		infoLogger.Printf("stripped prefix: %s", prefix)
		infoLogger.Printf("files: %d, directories: %d, size: %s", res.Files, res.Dirs, units.HumanSize(float64(res.Size)))
	},
}

func init() {
	requireFlags(importCmd,
		addProjectFlag(importCmd),
		addSourceFlag(importCmd),
	)
	addRootFlag(importCmd, "The directory of the project to import the archive into")
	addMaxSizeFlag(importCmd)

	rootCmd.AddCommand(importCmd)
}
