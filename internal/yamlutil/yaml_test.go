package yamlutil_test

// Notes:
// - Marshal error branch: not tested because yaml.Marshal only fails with
//   unmarshalable types (channels, functions), which config never contains.
// - Decode read errors: covered with a failing reader only, not partial reads.

import (
	"errors"
	"strings"
	"testing"

	"github.com/alnah/go-md2site/internal/yamlutil"
)

type siteConfig struct {
	Title   string `yaml:"title"`
	Recent  int    `yaml:"recent"`
	Enabled bool   `yaml:"enabled"`
}

// ---------------------------------------------------------------------------
// TestUnmarshal - Parses YAML into Go structs
// ---------------------------------------------------------------------------

func TestUnmarshal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    []byte
		dest    any
		wantErr error
	}{
		{
			name: "valid YAML",
			data: []byte("title: blog\nrecent: 7\nenabled: true"),
			dest: &siteConfig{},
		},
		{
			name:    "nil data",
			data:    nil,
			dest:    &siteConfig{},
			wantErr: yamlutil.ErrNilData,
		},
		{
			name:    "nil destination",
			data:    []byte("title: blog"),
			dest:    nil,
			wantErr: yamlutil.ErrNilDestination,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := yamlutil.Unmarshal(tt.data, tt.dest)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Unmarshal() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unmarshal() unexpected error: %v", err)
			}
			cfg := tt.dest.(*siteConfig)
			if cfg.Title != "blog" || cfg.Recent != 7 || !cfg.Enabled {
				t.Errorf("Unmarshal() = %+v", cfg)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestUnmarshalStrict - Rejects unknown fields
// ---------------------------------------------------------------------------

func TestUnmarshalStrict(t *testing.T) {
	t.Parallel()

	var cfg siteConfig
	err := yamlutil.UnmarshalStrict([]byte("title: blog\ntypo: true"), &cfg)
	if err == nil {
		t.Fatal("expected error for unknown field, got nil")
	}
	if !strings.HasPrefix(err.Error(), "yamlutil:") {
		t.Errorf("error = %q, want yamlutil prefix", err)
	}
}

// ---------------------------------------------------------------------------
// TestDecode - Reader-based decoding with size limit
// ---------------------------------------------------------------------------

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk gone") }

func TestDecode(t *testing.T) {
	t.Parallel()

	t.Run("strict decode", func(t *testing.T) {
		t.Parallel()

		var cfg siteConfig
		if err := yamlutil.Decode(strings.NewReader("title: notes\nrecent: 3"), &cfg, true); err != nil {
			t.Fatalf("Decode() error: %v", err)
		}
		if cfg.Title != "notes" || cfg.Recent != 3 {
			t.Errorf("Decode() = %+v", cfg)
		}
	})

	t.Run("input too large", func(t *testing.T) {
		t.Parallel()

		big := "title: " + strings.Repeat("x", yamlutil.MaxInputSize+1)
		var cfg siteConfig
		err := yamlutil.Decode(strings.NewReader(big), &cfg, false)
		if !errors.Is(err, yamlutil.ErrInputTooLarge) {
			t.Errorf("Decode() error = %v, want ErrInputTooLarge", err)
		}
	})

	t.Run("reader error", func(t *testing.T) {
		t.Parallel()

		var cfg siteConfig
		if err := yamlutil.Decode(failingReader{}, &cfg, false); err == nil {
			t.Error("expected error from failing reader")
		}
	})

	t.Run("nil destination", func(t *testing.T) {
		t.Parallel()

		err := yamlutil.Decode(strings.NewReader("title: x"), nil, false)
		if !errors.Is(err, yamlutil.ErrNilDestination) {
			t.Errorf("Decode() error = %v, want ErrNilDestination", err)
		}
	})
}

func TestMarshal(t *testing.T) {
	t.Parallel()

	out, err := yamlutil.Marshal(siteConfig{Title: "blog", Recent: 7})
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	if !strings.Contains(string(out), "title: blog") {
		t.Errorf("Marshal() = %q, want title line", out)
	}
}
