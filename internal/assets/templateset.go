package assets

import "fmt"

// Template names every site renders.
const (
	PostTemplateName     = "a-post"
	HomepageTemplateName = "homepage"
)

// DefaultStyleName is the embedded stylesheet used when a site ships none.
const DefaultStyleName = "default"

// Loader loads HTML templates by name (without the .html extension).
// Implementations return ErrTemplateNotFound when the template doesn't exist
// and ErrInvalidAssetName when the name is unsafe.
type Loader interface {
	LoadTemplate(name string) (string, error)
}

// TemplateSet holds the sources of the two templates a site is rendered with.
type TemplateSet struct {
	Post     string
	Homepage string
}

// LoadTemplateSet loads both site templates from loader.
func LoadTemplateSet(loader Loader) (*TemplateSet, error) {
	post, err := loader.LoadTemplate(PostTemplateName)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", PostTemplateName, err)
	}
	home, err := loader.LoadTemplate(HomepageTemplateName)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", HomepageTemplateName, err)
	}
	return &TemplateSet{Post: post, Homepage: home}, nil
}
