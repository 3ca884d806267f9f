// Package dataset wraps a parsed DELTA database in an immutable lookup
// index: characters and items by number, attribute values by (item,
// character) pair, and dependency edges by their dependent character.
//
// The engine and API layers read exclusively through an Index so a loaded
// dataset can be shared across concurrent sessions without copying.
package dataset
