package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/dayview/pkg/pipeline"
)

const twoMeetings = `{
	"date": "2024-03-04",
	"timezone": "UTC",
	"events": [
		{"title": "Standup", "start": "2024-03-04T09:00:00Z", "end": "2024-03-04T10:00:00Z"},
		{"title": "Review", "start": "2024-03-04T09:30:00Z", "end": "2024-03-04T10:30:00Z"}
	]
}`

func newTestServer(t *testing.T, maxEvents int) *httptest.Server {
	t.Helper()
	logger := log.New(io.Discard)
	s := New(pipeline.NewRunner(nil, nil, logger), Config{MaxEvents: maxEvents, Logger: logger})
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func post(t *testing.T, ts *httptest.Server, query, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(ts.URL+"/v1/layout"+query, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHealthAndVersion(t *testing.T) {
	ts := newTestServer(t, 0)
	for _, path := range []string{"/healthz", "/version"} {
		resp, err := http.Get(ts.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		var body map[string]string
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			t.Errorf("%s: decode: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("%s: status %d", path, resp.StatusCode)
		}
		if resp.Header.Get(RequestIDHeader) == "" {
			t.Errorf("%s: no request ID", path)
		}
	}
}

func TestLayoutJSON(t *testing.T) {
	ts := newTestServer(t, 0)
	resp := post(t, ts, "", twoMeetings)
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		t.Fatalf("status %d: %s", resp.StatusCode, b)
	}
	var got LayoutResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Cached {
		t.Error("first request reported cached")
	}
	if len(got.Day.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(got.Day.Items))
	}
	want := map[string][2]float64{"Standup": {85, 0}, "Review": {50, 50}}
	for _, it := range got.Day.Items {
		w := want[it.Event.Title]
		if math.Abs(it.Style.Width-w[0]) > 1e-6 || math.Abs(it.Style.XOffset-w[1]) > 1e-6 {
			t.Errorf("%s: width=%v xOffset=%v, want %v", it.Event.Title, it.Style.Width, it.Style.XOffset, w)
		}
	}
}

func TestLayoutFormats(t *testing.T) {
	ts := newTestServer(t, 0)
	tests := []struct {
		format, contentType, contains string
	}{
		{"svg", "image/svg+xml", "<svg"},
		{"text", "text/plain; charset=utf-8", "Standup"},
		{"dot", "text/vnd.graphviz", "digraph"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			resp := post(t, ts, "?format="+tt.format, twoMeetings)
			body, _ := io.ReadAll(resp.Body)
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status %d: %s", resp.StatusCode, body)
			}
			if ct := resp.Header.Get("Content-Type"); ct != tt.contentType {
				t.Errorf("Content-Type = %q, want %q", ct, tt.contentType)
			}
			if !bytes.Contains(body, []byte(tt.contains)) {
				t.Errorf("body lacks %q", tt.contains)
			}
		})
	}
}

func TestLayoutErrors(t *testing.T) {
	ts := newTestServer(t, 2)
	three := `{"date":"2024-03-04","timezone":"UTC","events":[` +
		strings.Repeat(`{"title":"x","start":"2024-03-04T09:00:00Z","end":"2024-03-04T10:00:00Z"},`, 2) +
		`{"title":"x","start":"2024-03-04T09:00:00Z","end":"2024-03-04T10:00:00Z"}]}`
	tests := []struct {
		name   string
		query  string
		body   string
		status int
		code   string
	}{
		{"Malformed", "", "{", http.StatusBadRequest, "INVALID_INPUT"},
		{"UnknownField", "", `{"colour":"red"}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"Format", "?format=gif", twoMeetings, http.StatusBadRequest, "INVALID_FORMAT"},
		{"Policy", "", `{"policy":"spiral","events":[]}`, http.StatusBadRequest, "INVALID_POLICY"},
		{"Sources", "", `{"sources":["/etc/passwd.json"]}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"TooMany", "", three, http.StatusRequestEntityTooLarge, "INVALID_INPUT"},
		{"Backwards", "", `{"date":"2024-03-04","timezone":"UTC","events":[
			{"title":"x","start":"2024-03-04T10:00:00Z","end":"2024-03-04T09:00:00Z"}]}`,
			http.StatusUnprocessableEntity, "INVALID_EVENT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, ts, tt.query, tt.body)
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			var got errorResponse
			if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got.Code != tt.code || got.Error == "" || got.RequestID == "" {
				t.Errorf("error body = %+v, want code %s", got, tt.code)
			}
		})
	}
}

func TestRequestIDPassthrough(t *testing.T) {
	ts := newTestServer(t, 0)
	const id = "1b4e28ba-2fa1-11d2-883f-0016d3cca427"
	tests := []struct {
		sent string
		keep bool
	}{
		{id, true},
		{"not-a-uuid", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q", tt.sent), func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodGet, ts.URL+"/healthz", nil)
			if tt.sent != "" {
				req.Header.Set(RequestIDHeader, tt.sent)
			}
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatal(err)
			}
			resp.Body.Close()
			got := resp.Header.Get(RequestIDHeader)
			if (got == tt.sent) != tt.keep || got == "" {
				t.Errorf("request ID = %q", got)
			}
		})
	}
}
