package md2site_test

import (
	"context"
	"fmt"
	"sort"
	"testing/fstest"

	md2site "github.com/alnah/go-md2site"
)

// pages collects output in memory.
type pages map[string][]byte

func (p pages) WriteFile(name string, data []byte) error {
	p[name] = data
	return nil
}

func (p pages) Root() string { return "" }

func Example() {
	posts := fstest.MapFS{
		"a.md": {Data: []byte("# A\nIntro A")},
		"b.md": {Data: []byte("# B\nIntro B")},
	}
	out := pages{}

	builder, err := md2site.NewBuilder(
		md2site.WithSource(posts),
		md2site.WithOutput(out),
		md2site.WithPosts([]string{"a.md", "b.md"}, false),
		md2site.WithWorkers(1),
	)
	if err != nil {
		fmt.Println(err)
		return
	}

	result, err := builder.Build(context.Background())
	if err != nil {
		fmt.Println(err)
		return
	}

	names := make([]string, 0, len(out))
	for name := range out {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Println(names)
	for _, intro := range result.Intros {
		fmt.Println(intro.Href, intro.Title)
	}
	// Output:
	// [a.html b.html index.html]
	// a.html A
	// b.html B
}
