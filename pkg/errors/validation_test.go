package errors

import (
	"strings"
	"testing"
)

func TestValidatePolicy(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"overlap", "overlap", false},
		{"nested", "nested", false},
		{"columns", "columns", false},
		{"redistribute", "redistribute", false},

		{"empty", "", true},
		{"unknown", "stacked", true},
		{"case sensitive", "Overlap", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePolicy(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePolicy(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPolicy) {
				t.Errorf("ValidatePolicy(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidPolicy)
			}
		})
	}
}

func TestValidateTimezone(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"empty means local", "", false},
		{"utc", "UTC", false},
		{"iana", "Europe/Berlin", false},
		{"unknown", "Mars/Olympus_Mons", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTimezone(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTimezone(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateSourcePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative file", "events.json", false},
		{"absolute file", "/tmp/day.ics", false},
		{"https url", "https://example.com/cal.ics", false},
		{"http url", "http://example.com/cal.ics", false},
		{"mongodb url", "mongodb://localhost:27017", false},
		{"mongodb srv url", "mongodb+srv://cluster.example.net", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 501), true},
		{"null byte", "foo\x00.json", true},
		{"control char", "foo\x01.json", true},
		{"ftp url", "ftp://example.com/cal.ics", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSourcePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSourcePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"https", "https://example.com", false},
		{"http", "http://example.com", false},
		{"empty", "", true},
		{"no scheme", "example.com", true},
		{"javascript", "javascript:alert(1)", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
