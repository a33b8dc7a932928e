// Package io reads and writes event files.
//
// # Formats
//
// Three structured formats are supported, selected by [Format] or by the
// file extension in [ImportEvents]:
//
//   - JSON (.json): an object with an "events" array, or a bare array
//   - YAML (.yaml, .yml): a mapping with an "events" sequence, or a bare sequence
//   - TOML (.toml): an array of tables named "events"
//
// Every event carries a title and RFC 3339 start and end times:
//
//	{
//	  "events": [
//	    {"title": "Standup", "start": "2024-03-04T09:00:00Z", "end": "2024-03-04T09:15:00Z"},
//	    {"title": "Review", "start": "2024-03-04T09:30:00Z", "end": "2024-03-04T10:30:00Z",
//	     "calendar": "work"}
//	  ]
//	}
//
// The same document in TOML:
//
//	[[events]]
//	title = "Standup"
//	start = 2024-03-04T09:00:00Z
//	end = 2024-03-04T09:15:00Z
//
// Optional fields are id, all_day (allDay in JSON), calendar, location and
// description. iCalendar files are handled by package source/ics because
// recurring entries need a time window to expand.
//
// # Import
//
// Use [ImportEvents] to read a file, or [ReadEvents] for any io.Reader:
//
//	events, err := io.ImportEvents("week.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Decoding does not validate event ranges; the layout engine reports
// malformed events with their index.
//
// # Export
//
// [WriteEvents] and [ExportEvents] write the same formats back, so a file
// can be converted between formats losslessly.
package io
