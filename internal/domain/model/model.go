package model

import "time"

type EntryType string

const (
	EntryFile      EntryType = "file"
	EntryDirectory EntryType = "directory"
	EntrySymlink   EntryType = "symlink"
)

type Category string

const (
	CategoryDocument     Category = "document"
	CategorySpreadsheet  Category = "spreadsheet"
	CategoryPresentation Category = "presentation"
	CategoryImage        Category = "image"
	CategoryAudio        Category = "audio"
	CategoryVideo        Category = "video"
	CategoryArchive      Category = "archive"
	CategoryExecutable   Category = "executable"
	CategoryCode         Category = "code"
	CategoryConfig       Category = "config"
	CategoryTemporary    Category = "temporary"
	CategoryUnknown      Category = "unknown"
)

// RiskLevel strings are a stable contract consumed by export tooling.
type RiskLevel string

const (
	RiskSafe     RiskLevel = "SAFE"
	RiskLow      RiskLevel = "LOW"
	RiskMedium   RiskLevel = "MEDIUM"
	RiskHigh     RiskLevel = "HIGH"
	RiskCritical RiskLevel = "CRITICAL"
)

// RiskLevelForScore maps an overall risk score onto its discrete level.
// The thresholds are fixed; the level is a pure function of the score.
func RiskLevelForScore(score int) RiskLevel {
	switch {
	case score >= 85:
		return RiskCritical
	case score >= 70:
		return RiskHigh
	case score >= 50:
		return RiskMedium
	case score >= 25:
		return RiskLow
	default:
		return RiskSafe
	}
}

var riskRank = map[RiskLevel]int{
	RiskSafe:     0,
	RiskLow:      1,
	RiskMedium:   2,
	RiskHigh:     3,
	RiskCritical: 4,
}

// RiskAtMost reports whether level is at or below max in severity.
func RiskAtMost(level, max RiskLevel) bool {
	return riskRank[level] <= riskRank[max]
}

const (
	ReasonHighImportance     = "high_importance"
	ReasonSystemFile         = "system_file"
	ReasonHasDependencies    = "has_dependencies"
	ReasonDifficultToRecover = "difficult_to_recover"
	ReasonNoBackup           = "no_backup"
)

// FileRecord is one scanned filesystem entry. Records are immutable once
// built; a rescan replaces the whole set.
type FileRecord struct {
	Path            string    `json:"path"`
	EntryType       EntryType `json:"entry_type"`
	Category        Category  `json:"category"`
	SizeBytes       uint64    `json:"size_bytes"`
	ModifiedAt      time.Time `json:"modified_at"`
	AccessedAt      time.Time `json:"accessed_at"`
	StatusChangedAt time.Time `json:"status_changed_at"`
	IsHidden        bool      `json:"is_hidden"`
	IsSystemOwned   bool      `json:"is_system_owned"`
	BackupExists    bool      `json:"backup_exists"`
	RelatedPaths    []string  `json:"related_paths,omitempty"`
}

type RiskReport struct {
	ImportanceScore    int       `json:"importance_score"`
	RecoveryDifficulty int       `json:"recovery_difficulty"`
	OverallRiskScore   int       `json:"overall_risk_score"`
	RiskLevel          RiskLevel `json:"risk_level"`
	Reasons            []string  `json:"reasons,omitempty"`
	Suggestions        []string  `json:"suggestions,omitempty"`
}

type Item struct {
	Record FileRecord `json:"record"`
	Risk   RiskReport `json:"risk"`
}

type ScanSummary struct {
	FileCount      int               `json:"file_count"`
	DirectoryCount int               `json:"directory_count"`
	TotalSizeBytes uint64            `json:"total_size_bytes"`
	OldestPath     string            `json:"oldest_path,omitempty"`
	NewestPath     string            `json:"newest_path,omitempty"`
	LargestPath    string            `json:"largest_path,omitempty"`
	RiskCounts     map[RiskLevel]int `json:"risk_counts"`
}

type WarningKind string

const (
	WarnRootUnavailable WarningKind = "root_unavailable"
	WarnCycleDetected   WarningKind = "cycle_detected"
	WarnReadError       WarningKind = "read_error"
)

type ScanWarning struct {
	Kind   WarningKind `json:"kind"`
	Path   string      `json:"path"`
	Detail string      `json:"detail,omitempty"`
}

// ItemFailure records a per-item error that did not abort the operation.
type ItemFailure struct {
	Path   string `json:"path"`
	Kind   string `json:"kind"`
	Detail string `json:"detail,omitempty"`
}

const (
	DeleteFailSafetyCheck = "safety_check_failed"
	DeleteFailNotFound    = "not_found"
	DeleteFailPermission  = "permission_denied"
	DeleteFailFilesystem  = "filesystem_error"
)

// CleanupResult is the terminal report of one cleanup run. It is created
// fresh per invocation and immutable after completion.
type CleanupResult struct {
	RunID      string        `json:"run_id"`
	DryRun     bool          `json:"dry_run"`
	StartedAt  time.Time     `json:"started_at"`
	Processed  int           `json:"processed"`
	Deleted    int           `json:"deleted"`
	Failed     int           `json:"failed"`
	Skipped    int           `json:"skipped"`
	BytesFreed uint64        `json:"bytes_freed"`
	Failures   []ItemFailure `json:"failures,omitempty"`
	DurationMS int64         `json:"duration_ms"`
}
