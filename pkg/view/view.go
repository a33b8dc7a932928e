package view

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/matzehuels/dayview/pkg/core/layout"
	"github.com/matzehuels/dayview/pkg/errors"
	"github.com/matzehuels/dayview/pkg/event"
)

// Item is one styled timed event.
type Item = layout.StyledEvent[event.Event]

// Day is a computed day layout.
type Day struct {
	Date                   string  `json:"date"` // YYYY-MM-DD in Timezone
	Timezone               string  `json:"timezone"`
	Policy                 string  `json:"policy"`
	MinimumStartDifference float64 `json:"min_start_diff"`
	Grid                   Grid    `json:"grid"`

	// Items holds the timed events in render order.
	Items  []Item        `json:"items"`
	AllDay []event.Event `json:"all_day,omitempty"`
	// Nodes is the grouping structure, present when requested. Node.Event
	// indexes Items.
	Nodes []layout.Node `json:"nodes,omitempty"`
}

// Grid describes the time grid a Day was laid out on.
type Grid struct {
	Start     time.Time   `json:"start"`
	End       time.Time   `json:"end"`
	Step      int         `json:"step"`
	Timeslots int         `json:"timeslots"`
	Groups    []time.Time `json:"groups,omitempty"`
}

// Minutes is the grid height in minutes.
func (g Grid) Minutes() float64 { return g.End.Sub(g.Start).Minutes() }

// Item returns the item whose event has id.
func (d *Day) Item(id string) (Item, bool) {
	for _, it := range d.Items {
		if it.Event.ID == id {
			return it, true
		}
	}
	return Item{}, false
}

// Overlapping reports, for every item, how many other items share part of
// its time range. Zero-length items never overlap.
func (d *Day) Overlapping() []int {
	out := make([]int, len(d.Items))
	for i, a := range d.Items {
		for j, b := range d.Items {
			if i != j && a.Event.Start.Before(b.Event.End) && b.Event.Start.Before(a.Event.End) {
				out[i]++
			}
		}
	}
	return out
}

// Marshal serializes a Day to indented JSON.
func Marshal(d *Day) ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// Unmarshal decodes and checks a Day.
func Unmarshal(data []byte) (*Day, error) {
	var d Day
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("unmarshal day: %w", err)
	}
	if _, err := time.Parse(time.DateOnly, d.Date); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "day has no valid date")
	}
	if err := errors.ValidatePolicy(d.Policy); err != nil {
		return nil, err
	}
	if !d.Grid.End.After(d.Grid.Start) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "day grid is empty")
	}
	if d.Items == nil {
		d.Items = []Item{}
	}
	return &d, nil
}

// WriteFile writes a Day to a JSON file.
func WriteFile(d *Day, path string) error {
	data, err := Marshal(d)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadFile reads a Day from a JSON file.
func ReadFile(path string) (*Day, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Unmarshal(data)
}
