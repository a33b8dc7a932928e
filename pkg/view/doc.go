// Package view defines the serialized form of a computed day layout.
//
// A [Day] is what every entry point exchanges: the pipeline caches it, the
// HTTP server returns it, and the renderers in pkg/render draw it. It
// carries the grid the layout was computed against, the styled timed
// events in render order, the all-day events that have no place on the
// grid, and optionally the grouping structure for debugging.
//
// # Serialization
//
//	data, err := view.Marshal(day)
//	day, err := view.Unmarshal(data)
//
//	err := view.WriteFile(day, "monday.json")
//	day, err := view.ReadFile("monday.json")
package view
