// Package templates resolves the --template value passed to pandoc.
//
// # Resolution
//
// A template reference is either a path or a name:
//
//	./book.latex, /abs/book.latex   path: must exist, passed as absolute path
//	eisvogel                        name: looked up in the template directory,
//	                                then handed to pandoc unchanged
//
// The template directory is optional. When configured, {dir}/{name}.latex
// takes precedence over pandoc's own data directory, which lets a project pin
// its own copy of a shared template such as eisvogel.
//
// # Security
//
// Names are validated to prevent path traversal. The Loader resolves symlinks
// and verifies that lookups stay within its base directory.
package templates
