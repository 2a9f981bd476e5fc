package cmd

import (
	"context"
	"os"

	units "github.com/docker/go-units"
	"github.com/spf13/cobra"

	"github.com/oneconcern/projar/pkg/archive"
	"github.com/oneconcern/projar/pkg/core"
	"github.com/oneconcern/projar/pkg/model"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a project as an archive",
	Long: `Export the filesystem of a project, or a directory of it, as a ZIP, TAR or TAR.GZ archive.

Directories always come before their content in the archive.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		l, err := paramsToLogger(projarFlags)
		if err != nil {
			wrapFatalln("set up logger", err)
			return
		}
		format, err := model.ParseArchiveFormat(projarFlags.export.format)
		if err != nil {
			wrapFatalln("parse format", err)
			return
		}
		level := projarFlags.export.level
		if !cmd.Flags().Changed(compressionFlag) {
			level = config.Compression
		}
		out := projarFlags.export.out
		if out == "" {
			out = projarFlags.project.ID + format.Extension()
		}

		mounts, closeMounts := paramsToMounts(projarFlags, l)
		defer func() {
			if err := closeMounts(ctx); err != nil {
				wrapFatalln("close project stores", err)
			}
		}()

		b, err := core.Export(ctx, mounts, projarFlags.project.ID, projarFlags.project.Root, format,
			archive.CompressionLevel(level),
			archive.BuildLogger(l),
		)
		if err != nil {
			wrapFatalln("export project", err)
			return
		}
		if err = os.WriteFile(out, b, 0o600); err != nil {
			wrapFatalln("write archive", err)
			return
		}
		infoLogger.Printf("exported project %q to %s (%s)", projarFlags.project.ID, out, units.HumanSize(float64(len(b))))
	},
}

func init() {
	requireFlags(exportCmd,
		addProjectFlag(exportCmd),
	)
	addRootFlag(exportCmd, "The directory of the project to export")
	addFormatFlag(exportCmd)
	addOutFlag(exportCmd)
	addCompressionFlag(exportCmd)

	rootCmd.AddCommand(exportCmd)
}
