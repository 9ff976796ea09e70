package md2site

import (
	"bytes"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/alnah/go-md2site/internal/dateutil"
	"github.com/alnah/go-md2site/internal/pipeline"
)

// rawMeta mirrors the front matter keys. Date stays untyped because YAML
// hands over strings and TOML hands over time.Time.
type rawMeta struct {
	Title       string `yaml:"title" toml:"title"`
	Date        any    `yaml:"date" toml:"date"`
	Draft       bool   `yaml:"draft" toml:"draft"`
	Description string `yaml:"description" toml:"description"`
}

// splitFrontMatter parses YAML (---) or TOML (+++) front matter and returns
// it with the remaining Markdown body. Content without front matter is
// returned whole.
func splitFrontMatter(content []byte) (PostMeta, []byte, error) {
	var raw rawMeta
	body, err := frontmatter.Parse(bytes.NewReader(content), &raw)
	if err != nil {
		return PostMeta{}, nil, fmt.Errorf("%w: %v", ErrFrontMatter, err)
	}

	date, err := metaDate(raw.Date)
	if err != nil {
		return PostMeta{}, nil, fmt.Errorf("%w: %v", ErrFrontMatter, err)
	}

	return PostMeta{
		Title:       strings.TrimSpace(raw.Title),
		Date:        date,
		Draft:       raw.Draft,
		Description: strings.TrimSpace(raw.Description),
	}, body, nil
}

func metaDate(v any) (time.Time, error) {
	switch d := v.(type) {
	case nil:
		return time.Time{}, nil
	case time.Time:
		return d, nil
	case string:
		return dateutil.ParseDate(d)
	default:
		return dateutil.ParseDate(fmt.Sprint(d))
	}
}

// resolveTitle picks the post title: front matter, then the first
// "# " heading of the body, then the file name in title case.
func resolveTitle(meta PostMeta, body []byte, postPath string) string {
	if meta.Title != "" {
		return meta.Title
	}
	if h := pipeline.FirstHeading(string(body)); h != "" {
		return h
	}
	name := strings.TrimSuffix(path.Base(postPath), path.Ext(postPath))
	name = strings.NewReplacer("-", " ", "_", " ").Replace(name)
	// A Caser is stateful, so each call gets its own.
	return cases.Title(language.English).String(strings.TrimSpace(name))
}
