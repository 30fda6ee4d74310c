package selection

import (
	"reflect"
	"testing"

	"binsweep/internal/domain/model"
)

func items() []model.Item {
	return []model.Item{
		{Record: model.FileRecord{Path: "/t/a.tmp", Category: model.CategoryTemporary}, Risk: model.RiskReport{RiskLevel: model.RiskSafe}},
		{Record: model.FileRecord{Path: "/t/b.log", Category: model.CategoryTemporary}, Risk: model.RiskReport{RiskLevel: model.RiskLow}},
		{Record: model.FileRecord{Path: "/t/c.docx", Category: model.CategoryDocument}, Risk: model.RiskReport{RiskLevel: model.RiskHigh}},
	}
}

func TestToggle(t *testing.T) {
	s := NewState()
	if !s.Toggle("/t/a.tmp") {
		t.Fatal("first toggle should select")
	}
	if !s.IsSelected("/t/a.tmp") {
		t.Fatal("expected selected")
	}
	if s.Toggle("/t/a.tmp") {
		t.Fatal("second toggle should deselect")
	}
	if s.Count() != 0 {
		t.Fatalf("count %d after toggle off", s.Count())
	}
}

func TestSelectCategory(t *testing.T) {
	s := NewState()
	if n := s.SelectCategory(items(), model.CategoryTemporary); n != 2 {
		t.Fatalf("selected %d, want 2", n)
	}
	want := []string{"/t/a.tmp", "/t/b.log"}
	if got := s.Selected(); !reflect.DeepEqual(got, want) {
		t.Fatalf("selected %v, want %v", got, want)
	}
}

func TestSelectUpToRisk(t *testing.T) {
	s := NewState()
	if n := s.SelectUpToRisk(items(), model.RiskLow); n != 2 {
		t.Fatalf("selected %d, want 2", n)
	}
	if s.IsSelected("/t/c.docx") {
		t.Fatal("HIGH item must not be selected with LOW threshold")
	}
}

func TestSelectAllSafe(t *testing.T) {
	s := NewState()
	if n := s.SelectAllSafe(items()); n != 1 {
		t.Fatalf("selected %d, want 1", n)
	}
	if !s.IsSelected("/t/a.tmp") {
		t.Fatal("SAFE item should be selected")
	}
}

func TestClearResetsSession(t *testing.T) {
	s := NewState()
	s.Select("/t/a.tmp")
	s.Select("/t/b.log")
	s.Clear()
	if s.Count() != 0 {
		t.Fatalf("count %d after clear", s.Count())
	}
}
