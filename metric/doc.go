// Package metric implements the similarity metrics used across vecmem:
// cosine, Euclidean (L2), dot product and Manhattan (L1). It exposes both a
// pairwise score and a batch variant that scores a dense row-major matrix
// against a single query in one pass.
//
// Scores carry each metric's natural value: similarities for cosine and dot
// product (higher is better) and distances for Euclidean and Manhattan (lower
// is better). Key converts a score into a "higher is better" sort key so that
// callers can always order results best first.
package metric
