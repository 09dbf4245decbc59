// Package importer maps flat delimited rows onto relational insert
// statements.
//
// The engine is declarative: an [ImportSpec] lists, per output table
// and role, a [RecordSpec] whose attributes are computed by resolvers
// ([Const], [Column], [Columns], [Dynamic], [CrossRef]). The
// [Importer] evaluates the spec over a [RowSource] and returns the
// ordered [RecordSet]; each [Record] serializes itself to one INSERT
// statement.
//
// Identifier assignment is deliberate state: a [Generator] from
// [Sequence] is owned by the caller and shared between every record
// spec that must draw from one identifier space. Cross-references
// between records derived from the same source row resolve through a
// per-row registry; foreign keys into an earlier pass resolve through
// [LookupAttr] over that pass's retained [RecordSet].
//
// Everything is synchronous and all-or-nothing. The first resolution
// failure aborts the pass, and callers must discard any partial
// output.
package importer
