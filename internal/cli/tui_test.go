package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pathforge/pathforge/pkg/hosting"
)

func testSummaries() []hosting.Summary {
	return []hosting.Summary{
		{ID: "pw-1", Name: "Sales Outreach", Description: "Cold call flow"},
		{ID: "pw-2", Name: "Support Line"},
		{ID: "pw-3", Name: "Renewal Follow-up"},
	}
}

func keyMsg(s string) tea.KeyMsg {
	if s == "enter" {
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestPathwayListNavigation(t *testing.T) {
	m := NewPathwayListModel(testSummaries())

	next, _ := m.Update(keyMsg("j"))
	m = next.(PathwayListModel)
	if m.Cursor != 1 {
		t.Errorf("Cursor = %d after down, want 1", m.Cursor)
	}

	next, _ = m.Update(keyMsg("k"))
	m = next.(PathwayListModel)
	if m.Cursor != 0 {
		t.Errorf("Cursor = %d after up, want 0", m.Cursor)
	}

	// Up at the top stays put.
	next, _ = m.Update(keyMsg("k"))
	m = next.(PathwayListModel)
	if m.Cursor != 0 {
		t.Errorf("Cursor = %d, want 0", m.Cursor)
	}
}

func TestPathwayListSelect(t *testing.T) {
	m := NewPathwayListModel(testSummaries())

	next, _ := m.Update(keyMsg("j"))
	m = next.(PathwayListModel)
	next, cmd := m.Update(keyMsg("enter"))
	m = next.(PathwayListModel)

	if m.Selected == nil || m.Selected.ID != "pw-2" {
		t.Fatalf("Selected = %+v, want pw-2", m.Selected)
	}
	if cmd == nil {
		t.Error("enter should quit the program")
	}
}

func TestPathwayListQuitWithoutSelection(t *testing.T) {
	m := NewPathwayListModel(testSummaries())

	next, cmd := m.Update(keyMsg("q"))
	m = next.(PathwayListModel)
	if m.Selected != nil {
		t.Error("quit should not select anything")
	}
	if cmd == nil {
		t.Error("q should quit the program")
	}
}

func TestPathwayListView(t *testing.T) {
	m := NewPathwayListModel(testSummaries())
	view := m.View()

	for _, want := range []string{"Select Pathway", "Sales Outreach", "pw-2", "[1/3]"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}
