package importer

import "strings"

// RecordSet is an ordered sequence of produced records. A completed
// pass exposes its records as a RecordSet so a later pass can resolve
// foreign keys against them; the set is read-only from that point on.
type RecordSet []*Record

// Table returns the records targeting the named table, in order.
func (s RecordSet) Table(name string) RecordSet {
	var out RecordSet
	for _, rec := range s {
		if rec.table == name {
			out = append(out, rec)
		}
	}
	return out
}

// Lookup finds the first record whose row id equals key. The search
// is linear.
func (s RecordSet) Lookup(key string) (*Record, bool) {
	for _, rec := range s {
		if rec.rowID == key {
			return rec, true
		}
	}
	return nil, false
}

// SQL renders every record in order, one statement per line.
func (s RecordSet) SQL(quoteIdents bool) string {
	var b strings.Builder
	for _, rec := range s {
		if quoteIdents {
			b.WriteString(rec.QuotedInsertStatement())
		} else {
			b.WriteString(rec.InsertStatement())
		}
		b.WriteByte('\n')
	}
	return b.String()
}
