// Package analytics derives dashboard view models from a snapshot of expense
// records, categories and budgets.
//
// Every function here is pure: inputs are never mutated, nothing is cached
// between calls and nothing blocks. Monetary sums are rounded to cents after
// each addition, so the result of summing many amounts can differ by a few
// cents from rounding a single final sum.
package analytics
