package templates

import "errors"

// Sentinel errors for template resolution.
var (
	// ErrTemplateNotFound indicates the template does not exist.
	ErrTemplateNotFound = errors.New("template not found")

	// ErrInvalidTemplateName indicates the name contains path separators,
	// traversal sequences or unexpected dots.
	ErrInvalidTemplateName = errors.New("invalid template name")

	// ErrInvalidBasePath indicates the template directory is not a readable directory.
	ErrInvalidBasePath = errors.New("invalid template directory")

	// ErrPathTraversal indicates an attempt to resolve a file outside the base path.
	ErrPathTraversal = errors.New("path traversal detected")
)
