package view

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/dayview/pkg/core/layout"
	"github.com/matzehuels/dayview/pkg/event"
)

func at(h, m int) time.Time {
	return time.Date(2024, 3, 4, h, m, 0, 0, time.UTC)
}

func sample() *Day {
	return &Day{
		Date:     "2024-03-04",
		Timezone: "UTC",
		Policy:   "overlap",
		Grid:     Grid{Start: at(0, 0), End: at(0, 0).AddDate(0, 0, 1), Step: 30, Timeslots: 2},
		Items: []Item{
			{Event: event.Event{ID: "a", Title: "Standup", Start: at(9, 0), End: at(10, 0)},
				Style: layout.Style{Width: 85}},
			{Event: event.Event{ID: "b", Title: "Review", Start: at(9, 30), End: at(10, 30)},
				Style: layout.Style{Width: 50, XOffset: 50, ZIndex: 50}},
			{Event: event.Event{ID: "c", Title: "Lunch", Start: at(12, 0), End: at(13, 0)},
				Style: layout.Style{Width: 100}},
		},
	}
}

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "day.json")
	if err := WriteFile(sample(), path); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(got.Items) != 3 || got.Items[1].Style.XOffset != 50 {
		t.Errorf("items = %+v", got.Items)
	}
	if !got.Items[0].Event.Start.Equal(at(9, 0)) {
		t.Errorf("start = %v", got.Items[0].Event.Start)
	}
	if got.Grid.Minutes() != 1440 {
		t.Errorf("grid minutes = %v", got.Grid.Minutes())
	}
}

func TestUnmarshalErrors(t *testing.T) {
	tests := []struct {
		name string
		json string
		want string
	}{
		{"Syntax", `{`, "unmarshal"},
		{"NoDate", `{"policy":"overlap"}`, "date"},
		{"BadPolicy", `{"date":"2024-03-04","policy":"spiral"}`, "policy"},
		{"EmptyGrid", `{"date":"2024-03-04","policy":"nested"}`, "grid"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Unmarshal([]byte(tt.json))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestUnmarshalEmptyItems(t *testing.T) {
	d, err := Unmarshal([]byte(`{"date":"2024-03-04","policy":"columns",
		"grid":{"start":"2024-03-04T08:00:00Z","end":"2024-03-04T18:00:00Z"}}`))
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if d.Items == nil {
		t.Error("Items is nil, want empty slice")
	}
}

func TestItemLookup(t *testing.T) {
	d := sample()
	if it, ok := d.Item("b"); !ok || it.Event.Title != "Review" {
		t.Errorf("Item(b) = %+v, %v", it, ok)
	}
	if _, ok := d.Item("zzz"); ok {
		t.Error("Item(zzz) found")
	}
}

func TestOverlapping(t *testing.T) {
	got := sample().Overlapping()
	want := []int{1, 1, 0}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Overlapping = %v, want %v", got, want)
			break
		}
	}
}
