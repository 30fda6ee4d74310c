package score

import (
	"path/filepath"
	"strings"
	"time"

	"binsweep/internal/domain/model"
)

// Category base contributions. Ranges per heuristic tier: content the
// user authored scores high, media medium, machine-regenerable low.
var categoryBase = map[model.Category]int{
	model.CategoryDocument:     30,
	model.CategorySpreadsheet:  28,
	model.CategoryPresentation: 26,
	model.CategoryCode:         28,
	model.CategoryConfig:       27,
	model.CategoryImage:        18,
	model.CategoryAudio:        16,
	model.CategoryVideo:        17,
	model.CategoryArchive:      20,
	model.CategoryExecutable:   10,
	model.CategoryTemporary:    0,
	model.CategoryUnknown:      10,
}

// Keyword groups. One bonus per matching group, however many of its
// keywords appear in the filename.
var keywordGroups = []struct {
	bonus    int
	keywords []string
}{
	{15, []string{"important", "critical", "final", "report"}},
	{10, []string{"project", "work", "thesis", "invoice", "master"}},
	{8, []string{"config", "settings", "backup", "license", "key"}},
}

var importantDirPatterns = []string{
	"desktop", "documents", "projects", "work", "backup", "config",
}

// roundHalfUp is the single rounding policy for all score arithmetic.
func roundHalfUp(x float64) int {
	return int(x + 0.5)
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// Importance computes the 0-100 importance score of a record. Pure
// function of the record and the reference time (used for recency).
func Importance(rec model.FileRecord, now time.Time) int {
	total := categoryBase[rec.Category]

	name := strings.ToLower(filepath.Base(rec.Path))
	for _, g := range keywordGroups {
		for _, kw := range g.keywords {
			if strings.Contains(name, kw) {
				total += g.bonus
				break
			}
		}
	}

	if underImportantDir(rec.Path) {
		total += 10
	}

	switch age := now.Sub(rec.AccessedAt); {
	case age <= 7*24*time.Hour:
		total += 8
	case age <= 30*24*time.Hour:
		total += 5
	}

	if rec.IsHidden {
		total -= 5
	}
	if rec.IsSystemOwned {
		// System files rank as more important, not less.
		total += 15
	}

	return clampScore(total)
}

func underImportantDir(path string) bool {
	dir := strings.ToLower(filepath.Dir(path))
	for _, pat := range importantDirPatterns {
		if strings.Contains(dir, pat) {
			return true
		}
	}
	return false
}
