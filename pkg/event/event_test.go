package event

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func at(d, h, m int) time.Time {
	return time.Date(2024, 3, d, h, m, 0, 0, time.UTC)
}

func titles(events []Event) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.Title
	}
	return out
}

func TestForDay(t *testing.T) {
	events := []Event{
		{Title: "inside", Start: at(4, 9, 0), End: at(4, 10, 0)},
		{Title: "overnight-in", Start: at(3, 22, 0), End: at(4, 2, 0)},
		{Title: "overnight-out", Start: at(4, 23, 0), End: at(5, 1, 0)},
		{Title: "yesterday", Start: at(3, 9, 0), End: at(3, 10, 0)},
		{Title: "ends-at-midnight", Start: at(3, 23, 0), End: at(4, 0, 0)},
		{Title: "tomorrow", Start: at(5, 0, 0), End: at(5, 1, 0)},
		{Title: "all-day", Start: at(4, 0, 0), End: at(5, 0, 0), AllDay: true},
		{Title: "instant", Start: at(4, 12, 0), End: at(4, 12, 0)},
		{Title: "instant-next", Start: at(5, 0, 0), End: at(5, 0, 0)},
	}
	got := titles(ForDay(events, at(4, 15, 0)))
	want := []string{"inside", "overnight-in", "overnight-out", "instant"}
	if len(got) != len(want) {
		t.Fatalf("ForDay = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ForDay[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestAllDay(t *testing.T) {
	events := []Event{
		{Title: "today", Start: at(4, 0, 0), End: at(5, 0, 0), AllDay: true},
		{Title: "yesterday", Start: at(3, 0, 0), End: at(4, 0, 0), AllDay: true},
		{Title: "week", Start: at(1, 0, 0), End: at(8, 0, 0), AllDay: true},
		{Title: "timed", Start: at(4, 9, 0), End: at(4, 10, 0)},
	}
	got := titles(AllDay(events, at(4, 9, 0)))
	if len(got) != 2 || got[0] != "today" || got[1] != "week" {
		t.Errorf("AllDay = %v, want [today week]", got)
	}
}

func TestAssignIDs(t *testing.T) {
	events := []Event{{ID: "keep"}, {}, {}}
	AssignIDs(events)
	if events[0].ID != "keep" {
		t.Errorf("existing ID replaced: %s", events[0].ID)
	}
	for _, e := range events[1:] {
		if _, err := uuid.Parse(e.ID); err != nil {
			t.Errorf("ID %q is not a UUID: %v", e.ID, err)
		}
	}
	if events[1].ID == events[2].ID {
		t.Error("generated IDs collide")
	}

	again := []Event{{ID: "keep"}, {}, {}}
	AssignIDs(again)
	if again[1].ID != events[1].ID || again[2].ID != events[2].ID {
		t.Error("IDs differ between runs")
	}

	moved := []Event{{Title: "x", Start: at(4, 9, 0), End: at(4, 10, 0)}}
	AssignIDs(moved)
	if moved[0].ID == events[1].ID {
		t.Error("different events share an ID")
	}
}

func TestAccessors(t *testing.T) {
	e := Event{Start: at(4, 9, 0), End: at(4, 9, 45)}
	if !Accessors.Start(e).Equal(e.Start) || !Accessors.End(e).Equal(e.End) {
		t.Error("accessors do not return event times")
	}
	if e.Duration() != 45*time.Minute {
		t.Errorf("Duration = %v, want 45m", e.Duration())
	}
}

func TestIn(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	e := Event{Start: at(4, 9, 0), End: at(4, 10, 0)}.In(loc)
	if e.Start.Hour() != 11 || e.Start.Location() != loc {
		t.Errorf("In = %v", e.Start)
	}
}
