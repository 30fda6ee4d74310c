// Package selection tracks which scanned items are marked for deletion.
// A State belongs to one interactive session; it is not safe for
// concurrent mutation and is not meant to be shared.
package selection

import (
	"sort"

	"binsweep/internal/domain/model"
)

type State struct {
	marked map[string]struct{}
}

func NewState() *State {
	return &State{marked: make(map[string]struct{})}
}

func (s *State) Select(path string) {
	s.marked[path] = struct{}{}
}

func (s *State) Deselect(path string) {
	delete(s.marked, path)
}

func (s *State) Toggle(path string) bool {
	if _, ok := s.marked[path]; ok {
		delete(s.marked, path)
		return false
	}
	s.marked[path] = struct{}{}
	return true
}

func (s *State) IsSelected(path string) bool {
	_, ok := s.marked[path]
	return ok
}

func (s *State) Count() int { return len(s.marked) }

func (s *State) Clear() {
	s.marked = make(map[string]struct{})
}

// SelectCategory marks every item of the given category.
func (s *State) SelectCategory(items []model.Item, cat model.Category) int {
	n := 0
	for _, it := range items {
		if it.Record.Category == cat {
			s.Select(it.Record.Path)
			n++
		}
	}
	return n
}

// SelectUpToRisk marks every item whose risk level is at or below max.
func (s *State) SelectUpToRisk(items []model.Item, max model.RiskLevel) int {
	n := 0
	for _, it := range items {
		if model.RiskAtMost(it.Risk.RiskLevel, max) {
			s.Select(it.Record.Path)
			n++
		}
	}
	return n
}

// SelectAllSafe marks only SAFE items.
func (s *State) SelectAllSafe(items []model.Item) int {
	return s.SelectUpToRisk(items, model.RiskSafe)
}

// Selected returns the marked paths in deterministic order.
func (s *State) Selected() []string {
	out := make([]string, 0, len(s.marked))
	for p := range s.marked {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
