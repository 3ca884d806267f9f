// Package session models identification sessions as ordered filter
// histories and persists them as JSON files guarded by a directory lock.
//
// A session stores nothing but its ID and filters; everything else about
// identification state is derived by replaying the history against the
// loaded dataset. That keeps undo trivial and makes the on-disk format
// stable across engine changes.
package session
