package classify

import (
	"io"
	"os"
	"strings"

	"github.com/h2non/filetype"

	"binsweep/internal/domain/model"
)

const sniffBufferSize = 8192

// sniffCategory reads the head of the file and matches magic bytes. Only
// consulted when the extension is unmapped; any failure degrades to
// Unknown rather than failing the classification.
func sniffCategory(path string) model.Category {
	f, err := os.Open(path)
	if err != nil {
		return model.CategoryUnknown
	}
	defer f.Close()

	buf := make([]byte, sniffBufferSize)
	n, err := f.Read(buf)
	if err != nil && err != io.EOF {
		return model.CategoryUnknown
	}

	kind, err := filetype.Match(buf[:n])
	if err != nil || kind == filetype.Unknown {
		return model.CategoryUnknown
	}

	switch {
	case strings.HasPrefix(kind.MIME.Value, "image/"):
		return model.CategoryImage
	case strings.HasPrefix(kind.MIME.Value, "video/"):
		return model.CategoryVideo
	case strings.HasPrefix(kind.MIME.Value, "audio/"):
		return model.CategoryAudio
	}

	switch kind.Extension {
	case "zip", "tar", "gz", "bz2", "xz", "7z", "rar", "iso":
		return model.CategoryArchive
	case "pdf", "doc", "docx", "rtf", "odt":
		return model.CategoryDocument
	case "xls", "xlsx", "ods":
		return model.CategorySpreadsheet
	case "ppt", "pptx", "odp":
		return model.CategoryPresentation
	case "exe", "elf", "macho":
		return model.CategoryExecutable
	}
	return model.CategoryUnknown
}
