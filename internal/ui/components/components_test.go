package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
)

func TestMenu_SkipsDisabled(t *testing.T) {
	picked := ""
	m := NewMenu([]MenuItem{
		{Label: "archived", Disabled: true},
		{Label: "exam", Action: func() tea.Cmd { picked = "exam"; return nil }},
		{Label: "trivia", Action: func() tea.Cmd { picked = "trivia"; return nil }},
	})
	if m.Selected != 1 {
		t.Fatalf("Selected = %d, want 1", m.Selected)
	}

	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	if m.Selected != 1 {
		t.Errorf("up onto disabled item moved selection to %d", m.Selected)
	}
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if picked != "trivia" {
		t.Errorf("picked = %q, want trivia", picked)
	}
	if !strings.Contains(m.View(), "trivia") {
		t.Error("view should list items")
	}
}

func TestProgressBar(t *testing.T) {
	p := NewProgressBar("", 1, 4, 30)
	if p.Percent != 0.25 {
		t.Errorf("Percent = %v, want 0.25", p.Percent)
	}
	if !strings.Contains(p.View(), "25%") {
		t.Errorf("view %q should show the percentage", p.View())
	}
	if NewProgressBar("", 0, 0, 30).Percent != 0 {
		t.Error("empty total should read as zero")
	}
}

func TestTextInput_Check(t *testing.T) {
	in := NewTextInput("answer", 40)
	for _, r := range "Paris " {
		in, _ = in.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
	if in.Value() != "Paris" {
		t.Fatalf("Value = %q", in.Value())
	}
	if !in.Check("  paris") {
		t.Error("Check should ignore case and spacing")
	}
	in, _ = in.Update(tea.KeyPressMsg{Code: 'x', Text: "x"})
	if in.Value() != "Paris" {
		t.Error("checked input should not take more keys")
	}
}
