package io_test

import (
	"fmt"
	"strings"

	"github.com/matzehuels/dayview/pkg/io"
)

func ExampleReadEvents() {
	doc := `
events:
  - title: Standup
    start: 2024-03-04T09:00:00Z
    end: 2024-03-04T09:15:00Z
  - title: Review
    start: 2024-03-04T09:30:00Z
    end: 2024-03-04T10:30:00Z
    calendar: work
`
	events, err := io.ReadEvents(strings.NewReader(doc), io.FormatYAML)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	for _, e := range events {
		line := fmt.Sprintf("%s %s-%s", e.Title, e.Start.Format("15:04"), e.End.Format("15:04"))
		if e.Calendar != "" {
			line += " [" + e.Calendar + "]"
		}
		fmt.Println(line)
	}
	// Output:
	// Standup 09:00-09:15
	// Review 09:30-10:30 [work]
}
