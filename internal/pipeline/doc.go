// Package pipeline implements the per-post conversion stages:
//   - Markdown preprocessing (line normalization, ==highlight== syntax)
//   - Markdown to HTML fragment conversion via Goldmark
//   - Rewriting links between posts from .md to .html
//   - Intro extraction (first h1 plus the element after it)
//   - Rendering the a-post and homepage templates
//
// Every stage is a pure transformation of strings. Reading sources and
// writing output belong to the md2site package, which wires the stages
// together through the HTMLConverter and Renderer interfaces.
package pipeline
