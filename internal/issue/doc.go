// SPDX-License-Identifier: MPL-2.0

// Package issue provides structured, user-facing error values and a
// markdown help catalog keyed by failure class: configuration, resolution,
// parse and evaluation errors.
package issue
