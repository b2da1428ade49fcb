// Package plant holds the Plant record, its partial-update merge, the fixed
// set of filtered queries and the SQLite repository that stores them.
//
// Plants live in a single table. Ids are generated by SQLite and are never
// reused, even after a delete. Every field other than the id is optional; an
// absent field in an update leaves the stored value untouched.
//
// # Thread Safety
//
// SQLiteRepository is safe for concurrent use. Updates are read-modify-write
// without compare-and-swap, so concurrent updates to one plant resolve as
// last write wins.
package plant
