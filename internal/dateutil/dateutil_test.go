package dateutil

import (
	"errors"
	"testing"
	"time"
)

func TestParseDateFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		format  string
		want    string
		wantErr error
	}{
		{name: "iso tokens", format: "YYYY-MM-DD", want: "2006-01-02"},
		{name: "long month", format: "MMMM D, YYYY", want: "January 2, 2006"},
		{name: "short year and month", format: "MMM YY", want: "Jan 06"},
		{name: "non-padded", format: "D/M", want: "2/1"},
		{name: "brackets preserve literal text", format: "[Posted]: YYYY", want: "Posted: 2006"},
		{name: "empty brackets are valid", format: "YYYY[]MM", want: "200601"},
		{name: "unclosed bracket returns error", format: "[Posted YYYY", wantErr: ErrInvalidDateFormat},
		{name: "empty format returns error", format: "", wantErr: ErrInvalidDateFormat},
		{
			name:    "format exceeding max length returns error",
			format:  string(make([]byte, MaxDateFormatLength+1)),
			wantErr: ErrInvalidDateFormat,
		},
		{name: "only literal characters", format: "---", want: "---"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseDateFormat(tt.format)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("ParseDateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDateFormat(%q) unexpected error: %v", tt.format, err)
			}
			if got != tt.want {
				t.Errorf("ParseDateFormat(%q) = %q, want %q", tt.format, got, tt.want)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		value   string
		want    time.Time
		wantErr error
	}{
		{name: "empty is zero", value: "", want: time.Time{}},
		{name: "blank is zero", value: "   ", want: time.Time{}},
		{name: "date only", value: "2024-03-09", want: time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)},
		{name: "date and time", value: "2024-03-09 14:30:00", want: time.Date(2024, 3, 9, 14, 30, 0, 0, time.UTC)},
		{name: "date and minutes", value: "2024-03-09 14:30", want: time.Date(2024, 3, 9, 14, 30, 0, 0, time.UTC)},
		{name: "rfc3339", value: "2024-03-09T14:30:00Z", want: time.Date(2024, 3, 9, 14, 30, 0, 0, time.UTC)},
		{name: "garbage", value: "last tuesday", wantErr: ErrInvalidDate},
		{name: "wrong order", value: "09/03/2024", wantErr: ErrInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseDate(tt.value)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("ParseDate(%q) error = %v, want %v", tt.value, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDate(%q) unexpected error: %v", tt.value, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseDate(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	t.Parallel()

	posted := time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		t       time.Time
		format  string
		want    string
		wantErr bool
	}{
		{name: "zero time is empty", t: time.Time{}, format: "long", want: ""},
		{name: "default format", t: posted, format: "", want: "2025-01-15"},
		{name: "preset long", t: posted, format: "long", want: "January 15, 2025"},
		{name: "preset is case-insensitive", t: posted, format: "EUROPEAN", want: "15/01/2025"},
		{name: "custom tokens", t: posted, format: "MMM D", want: "Jan 15"},
		{name: "invalid format", t: posted, format: "[YYYY", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Format(tt.t, tt.format)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Format() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}
