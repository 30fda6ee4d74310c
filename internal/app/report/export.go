package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"binsweep/internal/domain/model"
)

// Format selects the export encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// ParseFormat accepts the user-facing format names, case-insensitive.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json", "":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	}
	return "", fmt.Errorf("unknown export format %q (json, csv)", s)
}

// WriteScan renders a scan result set in the given format. JSON carries
// the full set; CSV flattens to one row per item and drops warnings and
// failures, which only fit the JSON shape.
func WriteScan(w io.Writer, set model.ScanResultSet, format Format) error {
	switch format {
	case FormatCSV:
		return writeScanCSV(w, set)
	default:
		return writeJSON(w, set)
	}
}

// WriteCleanup renders a cleanup result. CSV emits one row per failure
// after a single summary row.
func WriteCleanup(w io.Writer, res model.CleanupResult, format Format) error {
	switch format {
	case FormatCSV:
		return writeCleanupCSV(w, res)
	default:
		return writeJSON(w, res)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

var scanHeader = []string{
	"path", "type", "category", "size_bytes", "modified_at",
	"importance", "recovery_difficulty", "overall_risk", "risk_level", "reasons",
}

func writeScanCSV(w io.Writer, set model.ScanResultSet) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(scanHeader); err != nil {
		return err
	}
	for _, it := range set.Items {
		row := []string{
			it.Record.Path,
			string(it.Record.EntryType),
			string(it.Record.Category),
			strconv.FormatUint(it.Record.SizeBytes, 10),
			it.Record.ModifiedAt.UTC().Format(time.RFC3339),
			strconv.Itoa(it.Risk.ImportanceScore),
			strconv.Itoa(it.Risk.RecoveryDifficulty),
			strconv.Itoa(it.Risk.OverallRiskScore),
			string(it.Risk.RiskLevel),
			strings.Join(it.Risk.Reasons, ";"),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

var cleanupHeader = []string{
	"run_id", "dry_run", "started_at", "processed", "deleted", "failed",
	"skipped", "bytes_freed", "duration_ms",
}

func writeCleanupCSV(w io.Writer, res model.CleanupResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(cleanupHeader); err != nil {
		return err
	}
	summary := []string{
		res.RunID,
		strconv.FormatBool(res.DryRun),
		res.StartedAt.UTC().Format(time.RFC3339),
		strconv.Itoa(res.Processed),
		strconv.Itoa(res.Deleted),
		strconv.Itoa(res.Failed),
		strconv.Itoa(res.Skipped),
		strconv.FormatUint(res.BytesFreed, 10),
		strconv.FormatInt(res.DurationMS, 10),
	}
	if err := cw.Write(summary); err != nil {
		return err
	}
	if len(res.Failures) > 0 {
		if err := cw.Write([]string{"path", "kind", "detail"}); err != nil {
			return err
		}
		for _, f := range res.Failures {
			if err := cw.Write([]string{f.Path, f.Kind, f.Detail}); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
