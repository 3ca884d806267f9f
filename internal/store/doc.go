// Package store persists parsed DELTA datasets in SQLite so a dataset is
// loaded from source text once and reused across CLI invocations and API
// server restarts.
//
// The schema mirrors the parsed record types one table each: characters,
// character_states, character_dependencies, items, and item_attributes.
// Attribute values are stored in their canonical token form and reparsed
// on load, keeping value semantics out of the storage layer. Schema
// changes ship as embedded migrations applied on open.
package store
