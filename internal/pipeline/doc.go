// Package pipeline holds the text transforms applied around the pandoc call:
//   - Markdown cleaning (Docusaurus code-fence annotations, blank lines in fences)
//   - LaTeX post-processing (pandoc list leftovers)
//
// Both stages are pure string functions. File handling, image rewriting and
// the converter invocation live in the root md2latex package.
package pipeline
