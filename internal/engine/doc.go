// Package engine implements identification over a loaded DELTA dataset:
// filter evaluation, character proposal, and the automated workflow loop.
//
// The engine is stateless between calls. The remaining-item set is always
// derived by replaying a session's filter history against the shared
// dataset index, which makes filters commutative set intersections and
// gives undo and reset exact round-trip behavior.
//
// Match policy: absent, Unknown, and Variable codings never exclude an
// item; NotApplicable always does. Proposal ranks eligible characters by
// the number of distinct concrete values among remaining items, with ties
// going to the lowest character number. Characters flagged omit-from-key
// and dependency-suppressed characters never enter the pool.
package engine
