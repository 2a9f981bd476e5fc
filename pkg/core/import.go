package core

import (
	"context"

	"go.uber.org/zap"

	"github.com/oneconcern/projar/pkg/archive"
	"github.com/oneconcern/projar/pkg/core/status"
	"github.com/oneconcern/projar/pkg/metrics"
	"github.com/oneconcern/projar/pkg/model"
	"github.com/oneconcern/projar/pkg/mount"
)

// ImportResult describes an imported archive
type ImportResult struct {
	ProjectID string
	Format    model.ArchiveFormat
	Prefix    string
	Type      model.ProjectType
	Files     int
	Dirs      int
	Size      int64
}

// Importer imports archives into projects
type Importer struct {
	importOptions
	mounts *mount.Manager
}

// NewImporter builds an Importer mounting projects with mounts
func NewImporter(mounts *mount.Manager, opts ...ImportOption) *Importer {
	i := &Importer{
		importOptions: defaultImportOptions(),
		mounts:        mounts,
	}
	for _, apply := range opts {
		apply(&i.importOptions)
	}
	return i
}

// Import an archive under destRoot in the filesystem of a project.
//
// The archive is fully decoded before anything is written: a corrupt archive
// leaves the project untouched. A context canceled before materialization
// aborts the import. Once writing has started, the package lands as a whole.
func (i *Importer) Import(ctx context.Context, projectID string, data []byte, destRoot string) (*ImportResult, error) {
	l := i.l.With(zap.String("project", projectID), zap.String("dest", destRoot))

	res := &ImportResult{
		ProjectID: projectID,
		Format:    archive.Detect(data),
	}
	pkg, err := archive.Extract(data, append([]archive.ExtractOption{archive.ExtractLogger(l)}, i.extract...)...)
	if err != nil {
		l.Warn("cannot extract archive", zap.Stringer("format", res.Format), zap.Error(err))
		metrics.RecordImport("", len(data), err)
		return nil, err
	}

	pkg, res.Prefix = archive.Normalize(pkg)
	res.Type = archive.Classify(pkg.Files, i.classify...)
	res.Dirs = len(pkg.Dirs)
	res.Size = pkg.Size()
	l.Debug("archive decoded",
		zap.Stringer("format", res.Format),
		zap.String("prefix", res.Prefix),
		zap.Stringer("type", res.Type),
		zap.Int("files", len(pkg.Files)),
	)

	if err = ctx.Err(); err != nil {
		metrics.RecordImport(res.Type.String(), len(data), err)
		return nil, status.ErrInterrupted.Wrap(err)
	}

	// from here on, writes are not interrupted by the caller's cancellation
	wctx := context.WithoutCancel(ctx)
	err = i.mounts.WithMount(wctx, projectID, func(h *mount.Handle) error {
		n, err := Materialize(wctx, h, pkg, destRoot)
		res.Files = n
		return err
	})
	metrics.RecordImport(res.Type.String(), len(data), err)
	if err != nil {
		l.Error("import failed", zap.Int("written", res.Files), zap.Error(err))
		return nil, err
	}
	metrics.RecordMaterialized(res.Files)

	l.Info("project imported",
		zap.Stringer("type", res.Type),
		zap.String("prefix", res.Prefix),
		zap.Int("files", res.Files),
		zap.Int64("size", res.Size),
	)
	return res, nil
}
