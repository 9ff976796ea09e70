package pipeline

// Notes:
// - Fragments are written by hand to pin the DOM shape; one case runs the
//   real converter to cover the "# Title\nBody text" round trip

import (
	"context"
	"testing"
)

func TestExtractIntro(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		fragment string
		want     string
	}{
		{
			name:     "heading and paragraph",
			fragment: "<h1 id=\"a\">A</h1>\n<p>Intro A</p>\n<p>More</p>",
			want:     `<h1 id="a">A</h1><p>Intro A</p>`,
		},
		{
			name:     "element after heading is not a paragraph",
			fragment: "<h1>A</h1><ul><li>one</li></ul>",
			want:     "<h1>A</h1><ul><li>one</li></ul>",
		},
		{
			name:     "first h1 wins",
			fragment: "<h1>First</h1><p>one</p><h1>Second</h1><p>two</p>",
			want:     "<h1>First</h1><p>one</p>",
		},
		{
			name:     "h1 preceded by other content",
			fragment: "<p>lead</p><h2>sub</h2><h1>Main</h1><p>body</p>",
			want:     "<h1>Main</h1><p>body</p>",
		},
		{
			name:     "nested h1 uses its own sibling",
			fragment: "<div><h1>In</h1> <p>inside</p></div><p>outside</p>",
			want:     "<h1>In</h1><p>inside</p>",
		},
		{
			name:     "comment between is skipped",
			fragment: "<h1>A</h1><!-- note --><p>body</p>",
			want:     "<h1>A</h1><p>body</p>",
		},
		{
			name:     "heading only",
			fragment: "<h1>Lonely</h1>\n",
			want:     "<h1>Lonely</h1>",
		},
		{
			name:     "no heading",
			fragment: "<p>no heading here</p>",
			want:     "",
		},
		{
			name:     "only h2",
			fragment: "<h2>Sub</h2><p>x</p>",
			want:     "",
		},
		{
			name:     "empty",
			fragment: "",
			want:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ExtractIntro(tt.fragment)
			if err != nil {
				t.Fatalf("ExtractIntro() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ExtractIntro() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractIntro_FromMarkdown(t *testing.T) {
	t.Parallel()

	fragment, err := NewGoldmarkConverter().ToHTML(context.Background(), "# Title\nBody text")
	if err != nil {
		t.Fatalf("ToHTML() error = %v", err)
	}

	got, err := ExtractIntro(fragment)
	if err != nil {
		t.Fatalf("ExtractIntro() error = %v", err)
	}
	if want := `<h1 id="title">Title</h1><p>Body text</p>`; got != want {
		t.Errorf("ExtractIntro() = %q, want %q", got, want)
	}
}
