// Package validation checks a notice.FormState before it is previewed or
// saved. Every rule is evaluated on every call so callers can surface all
// failing fields at once; nothing short-circuits.
package validation
