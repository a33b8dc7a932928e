package cli

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/dayview/pkg/core/layout"
	"github.com/matzehuels/dayview/pkg/event"
	"github.com/matzehuels/dayview/pkg/pipeline"
	"github.com/matzehuels/dayview/pkg/view"
)

func testDay(date string) *view.Day {
	day, _ := time.Parse(time.DateOnly, date)
	at := func(h int) time.Time { return day.Add(time.Duration(h) * time.Hour) }
	return &view.Day{
		Date:   date,
		Policy: "overlap",
		Grid:   view.Grid{Start: day, End: day.AddDate(0, 0, 1), Step: 30, Timeslots: 2},
		Items: []view.Item{
			{Event: event.Event{Title: "Standup", Start: at(9), End: at(10)}, Style: layout.Style{Top: 37.5, Height: 4.17, Width: 85}},
			{Event: event.Event{Title: "Review", Start: at(9), End: at(11)}, Style: layout.Style{Top: 37.5, Height: 8.33, Width: 50, XOffset: 50, ZIndex: 50}},
		},
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestDayModel(t *testing.T) {
	var requested []pipeline.Options
	load := func(o pipeline.Options) (*view.Day, error) {
		requested = append(requested, o)
		return testDay(o.Date), nil
	}
	start := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	var m tea.Model = NewDayModel(start, pipeline.Options{Policy: "overlap"}, load)

	msg := m.Init()()
	m, _ = m.Update(msg)
	if dm := m.(DayModel); dm.Day == nil || len(dm.Day.Items) != 2 {
		t.Fatalf("day not loaded: %+v", dm.Err)
	}

	m, _ = m.Update(key("j"))
	m, _ = m.Update(key("j"))
	if c := m.(DayModel).Cursor; c != 1 {
		t.Errorf("cursor = %d, want 1 (clamped)", c)
	}
	if !strings.Contains(m.View(), "▸ B") {
		t.Error("selected event not marked")
	}

	m, cmd := m.Update(key("right"))
	if got := m.(DayModel).Date.Format(time.DateOnly); got != "2024-03-05" {
		t.Errorf("date = %s", got)
	}
	m, _ = m.Update(cmd())
	if dm := m.(DayModel); dm.Day.Date != "2024-03-05" || dm.Cursor != 0 {
		t.Errorf("after next day: date=%s cursor=%d", dm.Day.Date, dm.Cursor)
	}

	m, cmd = m.Update(key("p"))
	m, _ = m.Update(cmd())
	if p := requested[len(requested)-1].Policy; p != "nested" {
		t.Errorf("policy = %s, want nested", p)
	}

	if _, cmd := m.Update(key("q")); cmd == nil {
		t.Error("q should quit")
	}
}

func TestDayModelStaleAndError(t *testing.T) {
	start := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	m := NewDayModel(start, pipeline.Options{}, nil)

	next, _ := m.Update(dayLoadedMsg{date: "2024-03-01", day: testDay("2024-03-01")})
	if next.(DayModel).Day != nil {
		t.Error("stale result applied")
	}
	next, _ = m.Update(dayLoadedMsg{date: "2024-03-04", err: errors.New("feed down")})
	if !strings.Contains(next.View(), "feed down") {
		t.Error("error not shown")
	}
}

func TestNextPolicy(t *testing.T) {
	if nextPolicy(layout.PolicyRedistribute) != layout.PolicyOverlap {
		t.Error("policies should cycle")
	}
	if nextPolicy("") != layout.PolicyOverlap {
		t.Error("unknown policy should restart the cycle")
	}
}
