package svg

import (
	"encoding/xml"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/dayview/pkg/core/layout"
	"github.com/matzehuels/dayview/pkg/event"
	"github.com/matzehuels/dayview/pkg/view"
)

func at(h, m int) time.Time {
	return time.Date(2024, 3, 4, h, m, 0, 0, time.UTC)
}

func sample() *view.Day {
	start := at(8, 0)
	return &view.Day{
		Date:   "2024-03-04",
		Policy: "overlap",
		Grid: view.Grid{
			Start: start, End: at(18, 0), Step: 30, Timeslots: 2,
			Groups: []time.Time{at(8, 0), at(9, 0), at(10, 0)},
		},
		Items: []view.Item{
			{Event: event.Event{ID: "a", Title: "Design & review", Start: at(9, 0), End: at(11, 0), Calendar: "work"},
				Style: layout.Style{Top: 10, Height: 20, Width: 85, ZIndex: 0}},
			{Event: event.Event{ID: "b", Title: "<Call>", Start: at(9, 30), End: at(10, 0)},
				Style: layout.Style{Top: 15, Height: 5, Width: 50, XOffset: 50, ZIndex: 50}},
		},
		AllDay: []event.Event{{Title: "Holiday", AllDay: true}},
	}
}

func TestRenderIsWellFormed(t *testing.T) {
	out := Render(sample())
	dec := xml.NewDecoder(strings.NewReader(string(out)))
	for {
		_, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("invalid XML: %v\n%s", err, out)
		}
	}
}

func TestRenderContent(t *testing.T) {
	out := string(Render(sample(), WithSize(400, 1000)))
	for _, want := range []string{
		"Monday, 4 March 2024",
		"Design &amp; review",
		"&lt;Call&gt;",
		`id="event-a"`,
		"Holiday",
		">09:00<",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
	// Column is 400-56-8 = 336px wide; b starts half way.
	if !strings.Contains(out, `x="224.0"`) {
		t.Error("event b not offset to the middle of the column")
	}
}

func TestRenderZOrder(t *testing.T) {
	d := sample()
	d.Items[0], d.Items[1] = d.Items[1], d.Items[0]
	out := string(Render(d))
	if strings.Index(out, `id="event-a"`) > strings.Index(out, `id="event-b"`) {
		t.Error("higher zIndex drawn first")
	}
}

func TestRenderWithoutAllDay(t *testing.T) {
	out := string(Render(sample(), WithoutAllDay()))
	if strings.Contains(out, "Holiday") {
		t.Error("all-day band rendered")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 200); got != "short" {
		t.Errorf("truncate = %q", got)
	}
	got := truncate("a very long meeting title", 40)
	if !strings.HasSuffix(got, "..") || len([]rune(got)) > 7 {
		t.Errorf("truncate = %q", got)
	}
}

func TestColorForIsStable(t *testing.T) {
	if colorFor("work") != colorFor("work") {
		t.Error("colour not stable")
	}
	if colorFor("") != palette[0] {
		t.Error("empty calendar should use the first colour")
	}
}
