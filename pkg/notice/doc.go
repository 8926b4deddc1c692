// Package notice defines the change-notification document: the schedule rows,
// the optional header sections and the FormState aggregate that owns them.
//
// Structural rules (the schedule table and the optional header list are never
// empty) are enforced by the mutation methods on FormState rather than by the
// callers that drive them.
package notice
