// Package assets provides the HTML templates and default stylesheet of a site.
//
// # Loader Architecture
//
//	Loader (interface)
//	    │
//	    ├── EmbeddedLoader    - templates and styles compiled into the binary
//	    ├── FilesystemLoader  - templates from the site's templates directory
//	    └── Resolver          - custom first, embedded as fallback
//
// A site only needs to override the templates it cares about: a templates
// directory holding just homepage.html still gets the embedded a-post.html.
//
// # Directory Structure
//
//	{templatesDir}/
//	├── a-post.html      # one post, data: Compiled, Title, Date, Href, Site
//	└── homepage.html    # index page, data: Intros, Site
//
// # Security
//
// Template names are validated to prevent path traversal. FilesystemLoader
// resolves symlinks and verifies paths stay within its base directory.
package assets
