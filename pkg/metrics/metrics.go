// Package metrics exposes prometheus collectors for projar components.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	statusOK    = "ok"
	statusError = "error"

	// DirectionImport labels archives consumed by an import
	DirectionImport = "import"
	// DirectionExport labels archives produced by an export
	DirectionExport = "export"

	// RegistrationCreated labels a backing store registered by the mount manager
	RegistrationCreated = "created"
	// RegistrationAdopted labels a backing store found already registered
	RegistrationAdopted = "adopted"
	// RegistrationFailed labels a failed backing store registration
	RegistrationFailed = "failed"
)

var (
	importsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "projar_imports_total",
			Help: "Total number of project imports",
		},
		[]string{"type", "status"},
	)

	exportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "projar_exports_total",
			Help: "Total number of project exports",
		},
		[]string{"format", "status"},
	)

	archiveBytes = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "projar_archive_bytes",
			Help:    "Size of imported and exported archives",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 10),
		},
		[]string{"direction"},
	)

	filesMaterialized = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "projar_files_materialized_total",
			Help: "Total number of files written into project filesystems",
		},
	)

	mountsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "projar_mounts_active",
			Help: "Number of currently mounted projects",
		},
	)

	mountRegistrations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "projar_mount_registrations_total",
			Help: "Total number of backing store registrations",
		},
		[]string{"result"},
	)
)

func status(err error) string {
	if err != nil {
		return statusError
	}
	return statusOK
}

// RecordImport records the outcome of an import. projectType is empty when
// the import failed before classification.
func RecordImport(projectType string, size int, err error) {
	if projectType == "" {
		projectType = "unknown"
	}
	importsTotal.WithLabelValues(projectType, status(err)).Inc()
	if size > 0 {
		archiveBytes.WithLabelValues(DirectionImport).Observe(float64(size))
	}
}

// RecordExport records the outcome of an export
func RecordExport(format string, size int, err error) {
	exportsTotal.WithLabelValues(format, status(err)).Inc()
	if err == nil {
		archiveBytes.WithLabelValues(DirectionExport).Observe(float64(size))
	}
}

// RecordMaterialized counts files written on a project filesystem
func RecordMaterialized(files int) {
	filesMaterialized.Add(float64(files))
}

// MountUp records a new mount
func MountUp() {
	mountsActive.Inc()
}

// MountDown records an unmount
func MountDown() {
	mountsActive.Dec()
}

// RecordRegistration records the result of a backing store registration
func RecordRegistration(result string) {
	mountRegistrations.WithLabelValues(result).Inc()
}
