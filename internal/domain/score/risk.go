package score

import (
	"time"

	"binsweep/internal/domain/model"
)

const (
	largeFileBytes = 100 << 20
	hugeFileBytes  = 1 << 30
)

var categoryDifficulty = map[model.Category]int{
	model.CategoryDocument:     90,
	model.CategoryCode:         85,
	model.CategoryConfig:       80,
	model.CategorySpreadsheet:  85,
	model.CategoryPresentation: 80,
	model.CategoryImage:        60,
	model.CategoryAudio:        50,
	model.CategoryVideo:        55,
	model.CategoryArchive:      65,
	model.CategoryExecutable:   30,
	model.CategoryTemporary:    20,
	model.CategoryUnknown:      50,
}

// RecoveryDifficulty estimates how hard the content would be to
// reconstruct: category baseline, reduced when a backup exists, raised
// for very large files.
func RecoveryDifficulty(rec model.FileRecord) int {
	d := categoryDifficulty[rec.Category]
	if rec.BackupExists {
		d -= 30
	}
	switch {
	case rec.SizeBytes > hugeFileBytes:
		d += 20
	case rec.SizeBytes > largeFileBytes:
		d += 10
	}
	return clampScore(d)
}

// Assess produces the full risk report for one record. Deterministic:
// the same record and reference time always yield an identical report.
func Assess(rec model.FileRecord, now time.Time) model.RiskReport {
	importance := Importance(rec, now)
	difficulty := RecoveryDifficulty(rec)
	overall := clampScore(roundHalfUp(float64(importance)*0.7 + float64(difficulty)*0.3))

	report := model.RiskReport{
		ImportanceScore:    importance,
		RecoveryDifficulty: difficulty,
		OverallRiskScore:   overall,
		RiskLevel:          model.RiskLevelForScore(overall),
	}

	if importance >= 70 {
		report.Reasons = append(report.Reasons, model.ReasonHighImportance)
	}
	if rec.IsSystemOwned {
		report.Reasons = append(report.Reasons, model.ReasonSystemFile)
	}
	if len(rec.RelatedPaths) > 0 {
		report.Reasons = append(report.Reasons, model.ReasonHasDependencies)
	}
	if difficulty >= 70 {
		report.Reasons = append(report.Reasons, model.ReasonDifficultToRecover)
	}
	if !rec.BackupExists {
		report.Reasons = append(report.Reasons, model.ReasonNoBackup)
	}

	report.Suggestions = suggestions(rec, report, now)
	return report
}

// suggestions derives advisory next steps from the risk level and basic
// size/age heuristics. Advisory only; never blocks execution.
func suggestions(rec model.FileRecord, report model.RiskReport, now time.Time) []string {
	var out []string
	switch report.RiskLevel {
	case model.RiskCritical, model.RiskHigh:
		if !rec.BackupExists {
			out = append(out, "create-backup-first")
		}
		out = append(out, "manual-review")
	case model.RiskMedium:
		out = append(out, "manual-review")
	default:
		out = append(out, "safe-to-delete")
	}
	if rec.SizeBytes > hugeFileBytes {
		out = append(out, "large-file-review")
	}
	if now.Sub(rec.ModifiedAt) > 365*24*time.Hour && report.RiskLevel != model.RiskCritical {
		out = append(out, "stale-candidate")
	}
	return out
}
