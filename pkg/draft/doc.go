// Package draft persists the editor's form state as a single JSON document.
//
// The wire shape (Document) keeps the key names of the page the editor grew
// out of so existing drafts keep loading. Backends only move bytes; the
// Drafts service owns encoding, the size quota and the load tolerances.
package draft
