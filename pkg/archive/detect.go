package archive

import "github.com/oneconcern/projar/pkg/model"

var (
	gzipMagic = [2]byte{0x1f, 0x8b}
	zipMagic  = [2]byte{0x50, 0x4b} // "PK"
)

const (
	zipLocalFileHeader = 0x03
	zipEndOfDirectory  = 0x05
)

// Detect the format of an archive from its first bytes.
//
// Checks are ordered: a gzip header always wins, then a ZIP local file header or
// end of central directory signature. TAR has no reliable magic number and is the fallback.
func Detect(b []byte) model.ArchiveFormat {
	if len(b) >= 2 && b[0] == gzipMagic[0] && b[1] == gzipMagic[1] {
		return model.FormatTarGz
	}
	if len(b) >= 3 && b[0] == zipMagic[0] && b[1] == zipMagic[1] &&
		(b[2] == zipLocalFileHeader || b[2] == zipEndOfDirectory) {
		return model.FormatZip
	}
	return model.FormatTar
}
