package archive

import (
	units "github.com/docker/go-units"
	"github.com/klauspost/compress/flate"
	"go.uber.org/zap"

	"github.com/oneconcern/projar/pkg/dlogger"
)

const (
	// DefaultMaxFiles is the default maximum number of files extracted from an archive
	DefaultMaxFiles = 10000

	// DefaultMaxFileSize is the default maximum size of a single extracted file
	DefaultMaxFileSize = 100 * units.MiB

	// DefaultMaxTotalSize is the default maximum size of all extracted files
	DefaultMaxTotalSize = 1 * units.GiB

	// DefaultCompressionLevel favors size over speed
	DefaultCompressionLevel = flate.BestCompression
)

// ExtractOption tunes the extraction of an archive
type ExtractOption func(*extractOptions)

type extractOptions struct {
	maxFiles     int
	maxFileSize  int64
	maxTotalSize int64
	l            *zap.Logger
}

func defaultExtractOptions() extractOptions {
	return extractOptions{
		maxFiles:     DefaultMaxFiles,
		maxFileSize:  DefaultMaxFileSize,
		maxTotalSize: DefaultMaxTotalSize,
		l:            zap.NewNop(),
	}
}

// MaxFiles limits the number of files in an archive. 0 means unlimited.
func MaxFiles(n int) ExtractOption {
	return func(o *extractOptions) {
		o.maxFiles = n
	}
}

// MaxFileSize limits the size of any single file. 0 means unlimited.
func MaxFileSize(size int64) ExtractOption {
	return func(o *extractOptions) {
		o.maxFileSize = size
	}
}

// MaxTotalSize limits the cumulated size of all files. 0 means unlimited.
func MaxTotalSize(size int64) ExtractOption {
	return func(o *extractOptions) {
		o.maxTotalSize = size
	}
}

// ExtractLogger injects a logger into extraction
func ExtractLogger(l *zap.Logger) ExtractOption {
	return func(o *extractOptions) {
		o.l = dlogger.Or(l)
	}
}

// BuildOption tunes the building of an archive
type BuildOption func(*buildOptions)

type buildOptions struct {
	level int
	l     *zap.Logger
}

func defaultBuildOptions() buildOptions {
	return buildOptions{
		level: DefaultCompressionLevel,
		l:     zap.NewNop(),
	}
}

// CompressionLevel sets the deflate level used for ZIP entries and gzip streams,
// from flate.HuffmanOnly (-2) to flate.BestCompression (9)
func CompressionLevel(level int) BuildOption {
	return func(o *buildOptions) {
		o.level = level
	}
}

// BuildLogger injects a logger into archive building
func BuildLogger(l *zap.Logger) BuildOption {
	return func(o *buildOptions) {
		o.l = dlogger.Or(l)
	}
}
