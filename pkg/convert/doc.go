// Package convert provides some helpers for fast conversion between strings and byte slices.
//
// Conversion operations are essentially unsafe and avoid the use of memcpy().
package convert
