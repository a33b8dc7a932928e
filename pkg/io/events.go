package io

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/dayview/pkg/event"
)

// ErrUnknownFormat is returned for unsupported encodings.
var ErrUnknownFormat = errors.New("unknown event format")

type file struct {
	Events []event.Event `json:"events" yaml:"events" toml:"events"`
}

// ReadEvents decodes an event document in format f from r.
// ReadEvents does not close r.
func ReadEvents(r io.Reader, f Format) ([]event.Event, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	var doc file
	switch f {
	case FormatJSON:
		trimmed := bytes.TrimSpace(data)
		if len(trimmed) > 0 && trimmed[0] == '[' {
			err = json.Unmarshal(trimmed, &doc.Events)
		} else {
			err = json.Unmarshal(trimmed, &doc)
		}
	case FormatYAML:
		var node yaml.Node
		if err = yaml.Unmarshal(data, &node); err == nil && len(node.Content) > 0 && node.Content[0].Kind == yaml.SequenceNode {
			err = node.Content[0].Decode(&doc.Events)
		} else if err == nil {
			err = yaml.Unmarshal(data, &doc)
		}
	case FormatTOML:
		_, err = toml.Decode(string(data), &doc)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", f, err)
	}
	return doc.Events, nil
}

// ImportEvents reads the event file at path, choosing the format from its
// extension.
func ImportEvents(path string) ([]event.Event, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer fh.Close()
	return ReadEvents(fh, f)
}

// WriteEvents encodes events in format f to w.
func WriteEvents(w io.Writer, events []event.Event, f Format) error {
	doc := file{Events: events}
	if doc.Events == nil {
		doc.Events = []event.Event{}
	}
	var err error
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(doc)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err = enc.Encode(doc); err == nil {
			err = enc.Close()
		}
	case FormatTOML:
		err = toml.NewEncoder(w).Encode(doc)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", f, err)
	}
	return nil
}

// ExportEvents writes events to path in the format implied by its extension.
func ExportEvents(events []event.Event, path string) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	fh, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer fh.Close()
	return WriteEvents(fh, events, f)
}
