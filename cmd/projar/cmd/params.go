package cmd

import (
	"context"
	"strings"

	units "github.com/docker/go-units"
	"go.uber.org/zap"

	"github.com/oneconcern/projar/pkg/archive"
	"github.com/oneconcern/projar/pkg/dlogger"
	"github.com/oneconcern/projar/pkg/mount"
	"github.com/oneconcern/projar/pkg/source"
)

const memoryStore = "memory"

func paramsToLogger(flags flagsT) (*zap.Logger, error) {
	return dlogger.GetLogger(flags.root.logLevel)
}

// paramsToMounts builds a mount manager on the configured store.
// The returned func closes the manager and its backend.
func paramsToMounts(flags flagsT, l *zap.Logger) (*mount.Manager, func(context.Context) error) {
	var (
		backend mount.Backend
		closer  func() error
	)
	if strings.EqualFold(flags.root.store, memoryStore) {
		backend = mount.NewMemoryBackend()
		closer = func() error { return nil }
	} else {
		b := mount.NewBadgerBackend(flags.root.store, l)
		backend, closer = b, b.Close
	}

	mounts := mount.New(backend, mount.Logger(l))
	return mounts, func(ctx context.Context) error {
		if err := mounts.Close(ctx); err != nil {
			_ = closer()
			return err
		}
		return closer()
	}
}

func paramsToFetcher(ctx context.Context, flags flagsT, c *CLIConfig, l *zap.Logger) (*source.Fetcher, error) {
	opts := []source.Option{source.Logger(l)}
	if flags.source.MaxSize != "" {
		size, err := parseSize(flags.source.MaxSize)
		if err != nil {
			return nil, err
		}
		opts = append(opts, source.MaxSize(size))
	}
	if strings.HasPrefix(flags.source.URI, "s3://") {
		client, err := source.NewS3Client(ctx, c.S3)
		if err != nil {
			return nil, err
		}
		opts = append(opts, source.S3(client))
	}
	return source.New(opts...), nil
}

func configToClassifyOptions(c *CLIConfig) []archive.ClassifyOption {
	var opts []archive.ClassifyOption
	if c.Namespace != "" {
		opts = append(opts, archive.Namespace(c.Namespace))
	}
	if c.VisualTag != "" {
		opts = append(opts, archive.VisualTag(c.VisualTag))
	}
	return opts
}

func parseSize(size string) (int64, error) {
	return units.RAMInBytes(size)
}
