// Package apidoc embeds the OpenAPI description of the editor's HTTP surface
// and exposes the draft schema it declares so stored drafts can be checked
// against the same contract the API publishes.
package apidoc
