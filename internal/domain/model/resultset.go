package model

import "sort"

// ScanResultSet is the ordered output of one scan pass. Sort and filter
// methods return a new view over a copied item slice; the receiver is
// never mutated, so multiple views can coexist over one scan.
type ScanResultSet struct {
	Items    []Item        `json:"items"`
	Summary  ScanSummary   `json:"summary"`
	Warnings []ScanWarning `json:"warnings,omitempty"`
	Skips    []ItemFailure `json:"skips,omitempty"`
	Failures []ItemFailure `json:"failures,omitempty"`
}

type SortField string

const (
	SortByName  SortField = "name"
	SortBySize  SortField = "size"
	SortByMtime SortField = "mtime"
	SortByRisk  SortField = "risk"
)

func (s ScanResultSet) view(items []Item) ScanResultSet {
	return ScanResultSet{
		Items:    items,
		Summary:  SummarizeItems(items),
		Warnings: s.Warnings,
		Skips:    s.Skips,
		Failures: s.Failures,
	}
}

func (s ScanResultSet) SortBy(field SortField) ScanResultSet {
	items := append([]Item(nil), s.Items...)
	switch field {
	case SortByName:
		sort.SliceStable(items, func(i, j int) bool { return items[i].Record.Path < items[j].Record.Path })
	case SortByMtime:
		sort.SliceStable(items, func(i, j int) bool { return items[i].Record.ModifiedAt.After(items[j].Record.ModifiedAt) })
	case SortByRisk:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Risk.OverallRiskScore > items[j].Risk.OverallRiskScore
		})
	default:
		sort.SliceStable(items, func(i, j int) bool { return items[i].Record.SizeBytes > items[j].Record.SizeBytes })
	}
	out := s
	out.Items = items
	return out
}

func (s ScanResultSet) FilterByCategory(cat Category) ScanResultSet {
	items := make([]Item, 0, len(s.Items))
	for _, it := range s.Items {
		if it.Record.Category == cat {
			items = append(items, it)
		}
	}
	return s.view(items)
}

func (s ScanResultSet) FilterByRiskLevel(level RiskLevel) ScanResultSet {
	items := make([]Item, 0, len(s.Items))
	for _, it := range s.Items {
		if it.Risk.RiskLevel == level {
			items = append(items, it)
		}
	}
	return s.view(items)
}

// FilterByMaxRisk keeps items at or below the given level.
func (s ScanResultSet) FilterByMaxRisk(max RiskLevel) ScanResultSet {
	items := make([]Item, 0, len(s.Items))
	for _, it := range s.Items {
		if RiskAtMost(it.Risk.RiskLevel, max) {
			items = append(items, it)
		}
	}
	return s.view(items)
}

// FilterBySizeRange keeps items with minBytes <= size <= maxBytes.
// A maxBytes of zero means unbounded above.
func (s ScanResultSet) FilterBySizeRange(minBytes, maxBytes uint64) ScanResultSet {
	items := make([]Item, 0, len(s.Items))
	for _, it := range s.Items {
		if it.Record.SizeBytes < minBytes {
			continue
		}
		if maxBytes > 0 && it.Record.SizeBytes > maxBytes {
			continue
		}
		items = append(items, it)
	}
	return s.view(items)
}

func (s ScanResultSet) Find(path string) (Item, bool) {
	for _, it := range s.Items {
		if it.Record.Path == path {
			return it, true
		}
	}
	return Item{}, false
}

// SummarizeItems derives the aggregate statistics for a set of items.
// The summary is always recomputed from the items, never carried along.
func SummarizeItems(items []Item) ScanSummary {
	sum := ScanSummary{RiskCounts: make(map[RiskLevel]int)}
	var oldest, newest, largest *Item
	for i := range items {
		it := &items[i]
		switch it.Record.EntryType {
		case EntryDirectory:
			sum.DirectoryCount++
		default:
			sum.FileCount++
		}
		sum.TotalSizeBytes += it.Record.SizeBytes
		sum.RiskCounts[it.Risk.RiskLevel]++
		if oldest == nil || it.Record.ModifiedAt.Before(oldest.Record.ModifiedAt) {
			oldest = it
		}
		if newest == nil || it.Record.ModifiedAt.After(newest.Record.ModifiedAt) {
			newest = it
		}
		if largest == nil || it.Record.SizeBytes > largest.Record.SizeBytes {
			largest = it
		}
	}
	if oldest != nil {
		sum.OldestPath = oldest.Record.Path
	}
	if newest != nil {
		sum.NewestPath = newest.Record.Path
	}
	if largest != nil {
		sum.LargestPath = largest.Record.Path
	}
	return sum
}
