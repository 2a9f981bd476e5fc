package model

import (
	"fmt"
	"strings"
)

// ArchiveFormat tells how a package is serialized.
//
// Formats are determined from magic bytes, never from file name extensions.
type ArchiveFormat uint8

const (
	// FormatZip is a ZIP archive
	FormatZip ArchiveFormat = iota
	// FormatTar is an uncompressed TAR archive
	FormatTar
	// FormatTarGz is a gzip-compressed TAR archive
	FormatTarGz
)

func (f ArchiveFormat) String() string {
	switch f {
	case FormatZip:
		return "zip"
	case FormatTar:
		return "tar"
	case FormatTarGz:
		return "tar.gz"
	default:
		return fmt.Sprintf("format(%d)", uint8(f))
	}
}

// Extension suitable for an exported file name
func (f ArchiveFormat) Extension() string {
	if f == FormatTarGz {
		return ".tar.gz"
	}
	return "." + f.String()
}

// ParseArchiveFormat resolves a format name as typed by a user
func ParseArchiveFormat(name string) (ArchiveFormat, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "zip":
		return FormatZip, nil
	case "tar":
		return FormatTar, nil
	case "tgz", "tar.gz", "targz", "gz":
		return FormatTarGz, nil
	default:
		return 0, ErrUnknownFormat.Wrap(fmt.Errorf("%q", name))
	}
}

// ProjectType is the kind of project a package holds
type ProjectType uint8

const (
	// ProjectCode is a text-based project
	ProjectCode ProjectType = iota
	// ProjectVisual is a block-based project
	ProjectVisual
)

func (t ProjectType) String() string {
	if t == ProjectVisual {
		return "visual"
	}
	return "code"
}
