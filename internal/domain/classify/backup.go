package classify

import (
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
)

var backupSuffixes = []string{".bak", ".backup", ".old", "~"}

var backupDirNames = []string{"backup", "backups", ".backup"}

const (
	// Sibling listings are bounded; probing must never turn into a
	// second tree walk.
	maxSiblingEntries = 512

	contentHashBytes = 64 * 1024
)

// probeRelated looks for backups and same-basename relatives of path.
// It lists the containing directory once, plus known backup
// subdirectories one level down (depth 2 total).
func probeRelated(abs, base string, size int64) (bool, []string) {
	dir := filepath.Dir(abs)
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	entries, err := os.ReadDir(dir)
	if err != nil {
		return false, nil
	}
	if len(entries) > maxSiblingEntries {
		entries = entries[:maxSiblingEntries]
	}

	backup := false
	related := make(map[string]struct{})

	for _, e := range entries {
		name := e.Name()
		if name == base {
			continue
		}
		full := filepath.Join(dir, name)

		for _, suf := range backupSuffixes {
			if name == base+suf || name == stem+suf {
				backup = true
				related[full] = struct{}{}
			}
		}

		if e.IsDir() {
			continue
		}
		entStem := strings.TrimSuffix(name, filepath.Ext(name))
		if entStem == stem {
			related[full] = struct{}{}
			if size > 0 && sameSizeAndContent(abs, full, size) {
				backup = true
			}
		}
	}

	for _, bd := range backupDirNames {
		sub := filepath.Join(dir, bd)
		subEntries, err := os.ReadDir(sub)
		if err != nil {
			continue
		}
		if len(subEntries) > maxSiblingEntries {
			subEntries = subEntries[:maxSiblingEntries]
		}
		for _, e := range subEntries {
			if e.Name() == base {
				backup = true
				related[filepath.Join(sub, base)] = struct{}{}
			}
		}
	}

	if len(related) == 0 {
		return backup, nil
	}
	out := make([]string, 0, len(related))
	for p := range related {
		out = append(out, p)
	}
	sort.Strings(out)
	return backup, out
}

// sameSizeAndContent confirms a same-size sibling is a content copy by
// comparing xxhash digests of the leading chunk of both files.
func sameSizeAndContent(a, b string, size int64) bool {
	st, err := os.Lstat(b)
	if err != nil || !st.Mode().IsRegular() || st.Size() != size {
		return false
	}
	ha, ok := headHash(a)
	if !ok {
		return false
	}
	hb, ok := headHash(b)
	return ok && ha == hb
}

func headHash(path string) (uint64, bool) {
	f, err := os.Open(path)
	if err != nil {
		return 0, false
	}
	defer f.Close()

	h := xxhash.New()
	if _, err := io.Copy(h, io.LimitReader(f, contentHashBytes)); err != nil {
		return 0, false
	}
	return h.Sum64(), true
}
