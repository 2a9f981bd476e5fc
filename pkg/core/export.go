package core

import (
	"context"

	"github.com/oneconcern/projar/pkg/archive"
	"github.com/oneconcern/projar/pkg/metrics"
	"github.com/oneconcern/projar/pkg/model"
	"github.com/oneconcern/projar/pkg/mount"
	mountstatus "github.com/oneconcern/projar/pkg/mount/status"
	"github.com/oneconcern/projar/pkg/vfs"
)

// Export builds an archive from the tree under root in the filesystem of a project,
// mounting the project for the duration of the export if needed.
func Export(ctx context.Context, mounts *mount.Manager, projectID, root string,
	format model.ArchiveFormat, opts ...archive.BuildOption) ([]byte, error) {
	var b []byte
	err := mounts.WithMount(ctx, projectID, func(h *mount.Handle) error {
		var err error
		b, err = ExportFrom(ctx, h, root, format, opts...)
		return err
	})
	metrics.RecordExport(format.String(), len(b), err)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// ExportFrom builds an archive from the tree under root on an active mount
func ExportFrom(ctx context.Context, h *mount.Handle, root string,
	format model.ArchiveFormat, opts ...archive.BuildOption) ([]byte, error) {
	if !h.Active() {
		return nil, mountstatus.ErrMountNotActive
	}
	return archive.Build(ctx, h.FS, root, format, opts...)
}

// Entry of a project tree listing
type Entry struct {
	Path  string
	Size  int64
	IsDir bool
}

// List the tree under root in the filesystem of a project, parents first
func List(ctx context.Context, mounts *mount.Manager, projectID, root string) ([]Entry, error) {
	var entries []Entry
	err := mounts.WithMount(ctx, projectID, func(h *mount.Handle) error {
		return vfs.Walk(ctx, h.FS, root, func(rel string, info vfs.FileInfo) error {
			entries = append(entries, Entry{Path: rel, Size: info.Size, IsDir: info.IsDir})
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}
