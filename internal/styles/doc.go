// Package styles produces the site stylesheets.
//
// A Sass source is handed to an external compiler command, plain CSS is
// concatenated, and a missing source falls back to the embedded default
// style. When code highlighting is on, the chroma theme is written as its
// own stylesheet so highlighted blocks in posts get their colors.
package styles
