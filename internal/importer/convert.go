package importer

// convert.go provides the stock conversions used by import specs.
// Conversions produce serialized SQL literals; anything not passed
// through one of these (or a caller-supplied Convert) is emitted as a
// bare expression.

import (
	"fmt"
	"strings"
)

// Quote serializes a raw value as a SQL string literal, doubling any
// embedded single quotes.
func Quote(v string) (string, error) {
	return "'" + strings.ReplaceAll(v, "'", "''") + "'", nil
}

// JoinColumns returns a ConvertMulti that joins the named columns in
// the given order with sep and quotes the result.
func JoinColumns(sep string, names ...string) ConvertMulti {
	return func(values map[string]string) (string, error) {
		parts := make([]string, len(names))
		for i, name := range names {
			v, ok := values[name]
			if !ok {
				return "", fmt.Errorf("missing column %q", name)
			}
			parts[i] = v
		}
		return Quote(strings.Join(parts, sep))
	}
}

// LookupAttr returns a Convert that treats the column value as a
// business key into records retained from an earlier pass and yields
// the named attribute of the matching record. A key with no match is
// a dangling foreign key and fails the run.
func LookupAttr(records RecordSet, attr string) Convert {
	return func(key string) (string, error) {
		rec, ok := records.Lookup(key)
		if !ok {
			return "", fmt.Errorf("no retained record with row id %q", key)
		}
		v, ok := rec.Attr(attr)
		if !ok {
			return "", fmt.Errorf("retained record %q has no attribute %q", key, attr)
		}
		return v, nil
	}
}
