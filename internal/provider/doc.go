// Package provider identifies which BNPL provider sent a pasted email and
// carries the per-provider pattern tables used by field extraction.
//
// Providers form a closed set of IDs. Each ID maps to one immutable Profile
// through an exhaustive switch in ProfileFor; callers never look profiles up
// by free-form strings.
package provider
