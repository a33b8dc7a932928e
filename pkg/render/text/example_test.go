package text_test

import (
	"fmt"
	"time"

	"github.com/matzehuels/dayview/pkg/core/layout"
	"github.com/matzehuels/dayview/pkg/event"
	"github.com/matzehuels/dayview/pkg/render/text"
	"github.com/matzehuels/dayview/pkg/view"
)

func ExampleRender() {
	at := func(h int) time.Time { return time.Date(2024, 3, 4, h, 0, 0, 0, time.UTC) }
	day := &view.Day{
		Date:   "2024-03-04",
		Policy: "columns",
		Grid:   view.Grid{Start: at(9), End: at(12), Step: 60, Timeslots: 1, Groups: []time.Time{at(9), at(10), at(11)}},
		Items: []view.Item{
			{Event: event.Event{Title: "Offsite", Start: at(9), End: at(12)},
				Style: layout.Style{Height: 100, Width: 50}},
			{Event: event.Event{Title: "Call", Start: at(10), End: at(11)},
				Style: layout.Style{Top: 100.0 / 3, Height: 100.0 / 3, Width: 50, XOffset: 50, ZIndex: 50}},
		},
	}
	fmt.Print(text.Render(day, text.Options{Width: 8}))
	// Output:
	// Monday, 4 March 2024 (columns)
	// 09:00 │AAAA    │
	// 10:00 │AAAABBBB│
	// 11:00 │AAAA    │
	// A 09:00-12:00 Offsite
	// B 10:00-11:00 Call
}
