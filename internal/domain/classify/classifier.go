package classify

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"binsweep/internal/domain/model"
)

type IOErrorKind string

const (
	IONotFound         IOErrorKind = "not_found"
	IOPermissionDenied IOErrorKind = "permission_denied"
	IOOther            IOErrorKind = "other"
)

// IOError is a per-item classification failure. The scan records it and
// moves on; it is never fatal to a whole pass.
type IOError struct {
	Kind IOErrorKind
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

func ioError(path string, err error) *IOError {
	kind := IOOther
	switch {
	case os.IsNotExist(err):
		kind = IONotFound
	case os.IsPermission(err):
		kind = IOPermissionDenied
	}
	return &IOError{Kind: kind, Path: path, Err: err}
}

var extCategories = map[string]model.Category{
	"doc": model.CategoryDocument, "docx": model.CategoryDocument, "odt": model.CategoryDocument,
	"rtf": model.CategoryDocument, "txt": model.CategoryDocument, "md": model.CategoryDocument,
	"pdf": model.CategoryDocument, "pages": model.CategoryDocument, "tex": model.CategoryDocument,

	"xls": model.CategorySpreadsheet, "xlsx": model.CategorySpreadsheet, "ods": model.CategorySpreadsheet,
	"csv": model.CategorySpreadsheet, "numbers": model.CategorySpreadsheet,

	"ppt": model.CategoryPresentation, "pptx": model.CategoryPresentation, "odp": model.CategoryPresentation,
	"key": model.CategoryPresentation,

	"jpg": model.CategoryImage, "jpeg": model.CategoryImage, "png": model.CategoryImage,
	"gif": model.CategoryImage, "bmp": model.CategoryImage, "svg": model.CategoryImage,
	"webp": model.CategoryImage, "tiff": model.CategoryImage, "heic": model.CategoryImage,
	"ico": model.CategoryImage,

	"mp3": model.CategoryAudio, "wav": model.CategoryAudio, "flac": model.CategoryAudio,
	"ogg": model.CategoryAudio, "m4a": model.CategoryAudio, "aac": model.CategoryAudio,

	"mp4": model.CategoryVideo, "mkv": model.CategoryVideo, "avi": model.CategoryVideo,
	"mov": model.CategoryVideo, "wmv": model.CategoryVideo, "webm": model.CategoryVideo,
	"m4v": model.CategoryVideo,

	"zip": model.CategoryArchive, "tar": model.CategoryArchive, "gz": model.CategoryArchive,
	"tgz": model.CategoryArchive, "bz2": model.CategoryArchive, "xz": model.CategoryArchive,
	"7z": model.CategoryArchive, "rar": model.CategoryArchive, "iso": model.CategoryArchive,
	"dmg": model.CategoryArchive,

	"exe": model.CategoryExecutable, "msi": model.CategoryExecutable, "bin": model.CategoryExecutable,
	"run": model.CategoryExecutable, "appimage": model.CategoryExecutable, "deb": model.CategoryExecutable,
	"rpm": model.CategoryExecutable, "so": model.CategoryExecutable, "dll": model.CategoryExecutable,
	"dylib": model.CategoryExecutable,

	"go": model.CategoryCode, "py": model.CategoryCode, "js": model.CategoryCode,
	"ts": model.CategoryCode, "java": model.CategoryCode, "c": model.CategoryCode,
	"cpp": model.CategoryCode, "h": model.CategoryCode, "rs": model.CategoryCode,
	"rb": model.CategoryCode, "php": model.CategoryCode, "sh": model.CategoryCode,
	"swift": model.CategoryCode, "kt": model.CategoryCode, "sql": model.CategoryCode,
	"html": model.CategoryCode, "css": model.CategoryCode,

	"json": model.CategoryConfig, "yaml": model.CategoryConfig, "yml": model.CategoryConfig,
	"toml": model.CategoryConfig, "ini": model.CategoryConfig, "conf": model.CategoryConfig,
	"cfg": model.CategoryConfig, "xml": model.CategoryConfig, "plist": model.CategoryConfig,
	"env": model.CategoryConfig, "properties": model.CategoryConfig,

	"tmp": model.CategoryTemporary, "temp": model.CategoryTemporary, "bak": model.CategoryTemporary,
	"old": model.CategoryTemporary, "swp": model.CategoryTemporary, "swo": model.CategoryTemporary,
	"cache": model.CategoryTemporary, "log": model.CategoryTemporary, "part": model.CategoryTemporary,
	"crdownload": model.CategoryTemporary,
}

var systemPathPatterns = []string{
	"/usr/", "/etc/", "/bin/", "/sbin/", "/lib/", "/opt/",
	"/System/", "/Library/", "/Windows/",
}

var tempDirNames = map[string]struct{}{
	"tmp": {}, "temp": {}, "cache": {}, ".cache": {}, "logs": {},
}

// Classify inspects one filesystem entry and builds its FileRecord. All
// metadata comes from a single lstat; I/O failures surface as IOError,
// never swallowed.
func Classify(path string) (model.FileRecord, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return model.FileRecord{}, ioError(path, err)
	}
	st, err := os.Lstat(abs)
	if err != nil {
		return model.FileRecord{}, ioError(abs, err)
	}

	atime, ctime := statTimes(st)
	base := filepath.Base(abs)

	rec := model.FileRecord{
		Path:            abs,
		SizeBytes:       uint64(st.Size()),
		ModifiedAt:      st.ModTime().UTC(),
		AccessedAt:      atime.UTC(),
		StatusChangedAt: ctime.UTC(),
		IsHidden:        strings.HasPrefix(base, "."),
		IsSystemOwned:   isSystemOwned(abs, st.Mode()),
	}

	switch {
	case st.IsDir():
		rec.EntryType = model.EntryDirectory
		rec.Category = categorizeDir(base)
		rec.SizeBytes = 0
	case st.Mode()&os.ModeSymlink != 0:
		rec.EntryType = model.EntrySymlink
		rec.Category = model.CategoryUnknown
	default:
		rec.EntryType = model.EntryFile
		rec.Category = categorizeFile(abs, base)
		rec.BackupExists, rec.RelatedPaths = probeRelated(abs, base, st.Size())
	}
	return rec, nil
}

func categorizeFile(abs, base string) model.Category {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(base), "."))
	if cat, ok := extCategories[ext]; ok {
		return cat
	}
	if cat := sniffCategory(abs); cat != model.CategoryUnknown {
		return cat
	}
	return model.CategoryUnknown
}

func categorizeDir(base string) model.Category {
	if _, ok := tempDirNames[strings.ToLower(base)]; ok {
		return model.CategoryTemporary
	}
	return model.CategoryUnknown
}

// isSystemOwned flags entries under system path prefixes, and entries
// whose permission bits look like installed binaries: setuid/setgid, or
// executable with group/other access stripped.
func isSystemOwned(abs string, mode os.FileMode) bool {
	for _, p := range systemPathPatterns {
		if strings.HasPrefix(abs, p) {
			return true
		}
	}
	if mode&(os.ModeSetuid|os.ModeSetgid) != 0 {
		return true
	}
	perm := mode.Perm()
	return perm&0o111 != 0 && perm&0o077 == 0
}
