// Package delta parses DELTA-format taxonomic descriptions into typed
// records: characters with their states and dependencies, items, and the
// attribute codings that connect them.
//
// The format splits a dataset across three files. The characters file
// declares numbered characters and their states; the specs file carries
// directives assigning types, implicit values, mandatory and omit flags,
// and dependency edges; the items file codes each taxon's attribute
// values. Values come in four shapes (exact scalar, numeric range,
// multistate set, pseudo-value) modelled by the Value tagged union so a
// shape can never be stored against an incompatible character type.
//
// The parser collects every recoverable error across a run and reports
// them together; callers get either a complete Database or the full
// ErrorList, never a partially trusted record set.
package delta
