// Package cache provides the query result cache. Keys hash the raw query
// bits with xxhash; full keys are compared on lookup. The owner clears the
// cache on every mutation of the underlying collection.
package cache
