// Package render produces the outgoing notice from a form state. The email
// renderer drives a pongo2 template with escaping enabled; long-form fields
// are converted to HTML before they reach the template, either as escaped
// text with line breaks or as sanitized markdown.
package render
