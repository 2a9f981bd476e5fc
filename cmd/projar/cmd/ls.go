package cmd

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	units "github.com/docker/go-units"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/oneconcern/projar/pkg/core"
)

var lsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List the files of a project",
	Long:  "List the tree of the filesystem of a project, or of a directory of it, directories first.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		l, err := paramsToLogger(projarFlags)
		if err != nil {
			wrapFatalln("set up logger", err)
			return
		}

		mounts, closeMounts := paramsToMounts(projarFlags, l)
		defer func() {
			if err := closeMounts(ctx); err != nil {
				wrapFatalln("close project stores", err)
			}
		}()

		entries, err := core.List(ctx, mounts, projarFlags.project.ID, projarFlags.project.Root)
		if err != nil {
			wrapFatalln("list project", err)
			return
		}

		var buf strings.Builder
		w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
		for _, entry := range entries {
			if entry.IsDir {
				fmt.Fprintf(w, "%s/\t%s\n", color.BlueString(entry.Path), color.HiBlackString("-"))
				continue
			}
			fmt.Fprintf(w, "%s\t%s\n", entry.Path, units.HumanSize(float64(entry.Size)))
		}
		_ = w.Flush()
		infoLogger.Print(buf.String())
	},
}

func init() {
	requireFlags(lsCmd,
		addProjectFlag(lsCmd),
	)
	addRootFlag(lsCmd, "The directory of the project to list")

	rootCmd.AddCommand(lsCmd)
}
