package core

import (
	"go.uber.org/zap"

	"github.com/oneconcern/projar/pkg/archive"
	"github.com/oneconcern/projar/pkg/dlogger"
)

// ImportOption tunes an Importer
type ImportOption func(*importOptions)

type importOptions struct {
	extract  []archive.ExtractOption
	classify []archive.ClassifyOption
	l        *zap.Logger
}

func defaultImportOptions() importOptions {
	return importOptions{
		l: zap.NewNop(),
	}
}

// ExtractOptions passes options to the archive extractor
func ExtractOptions(opts ...archive.ExtractOption) ImportOption {
	return func(o *importOptions) {
		o.extract = append(o.extract, opts...)
	}
}

// ClassifyOptions passes options to the project classifier
func ClassifyOptions(opts ...archive.ClassifyOption) ImportOption {
	return func(o *importOptions) {
		o.classify = append(o.classify, opts...)
	}
}

// Logger injects a logger
func Logger(l *zap.Logger) ImportOption {
	return func(o *importOptions) {
		o.l = dlogger.Or(l)
	}
}
