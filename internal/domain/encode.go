package domain

import "sort"

// Row is an unordered set of named feature cells produced by the encoder.
type Row map[string]Value

// Encoding is the fitted indicator scheme: for each encoded field, the set of
// categories that have a column in the manifest. Reference levels dropped at
// fit time have no entry. Safe for concurrent use once built.
type Encoding struct {
	categorical []string
	indicators  map[string]map[string]string // field -> category -> column
}

// NewEncoding derives the indicator scheme from the manifest. Every column
// "<field>_<category>" is registered under each possible split point, so field
// names and categories may themselves contain underscores. categorical lists the
// fields that are always encoded, even when a value has no matching column.
func NewEncoding(manifest Manifest, categorical []string) *Encoding {
	e := &Encoding{
		categorical: append([]string(nil), categorical...),
		indicators:  make(map[string]map[string]string),
	}
	for _, col := range manifest {
		for i := 1; i < len(col)-1; i++ {
			if col[i] != '_' {
				continue
			}
			field, category := col[:i], col[i+1:]
			cats, ok := e.indicators[field]
			if !ok {
				cats = make(map[string]string)
				e.indicators[field] = cats
			}
			cats[category] = col
		}
	}
	return e
}

// Fields returns the sorted names of fields with at least one indicator column.
func (e *Encoding) Fields() []string {
	fields := make([]string, 0, len(e.indicators))
	for f := range e.indicators {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// Categories returns the sorted fitted categories of field.
func (e *Encoding) Categories(field string) []string {
	cats := make([]string, 0, len(e.indicators[field]))
	for c := range e.indicators[field] {
		cats = append(cats, c)
	}
	sort.Strings(cats)
	return cats
}

// Encode expands rec into indicator columns. Categorical fields are always
// replaced by their indicator; any other string-valued field is replaced the
// same way when the manifest carries indicators for it. Remaining fields pass
// through untouched for numeric coercion. Values outside the fitted universe set
// no indicator, which is how the reference level is represented.
func (e *Encoding) Encode(rec InputRecord) Row {
	row := make(Row, len(rec))
	encoded := make([]string, 0, len(e.categorical))

	for field, v := range rec {
		if e.isCategorical(field) {
			encoded = append(encoded, field)
			continue
		}
		if _, known := e.indicators[field]; known && v.Kind() == KindString {
			encoded = append(encoded, field)
			continue
		}
		row[field] = v
	}

	// Indicators are written after pass-through fields so an input key that
	// collides with an indicator name cannot override it.
	for _, field := range encoded {
		category, ok := rec[field].Category()
		if !ok {
			continue
		}
		if col, ok := e.indicators[field][category]; ok {
			row[col] = Number(1)
		}
	}
	return row
}

func (e *Encoding) isCategorical(field string) bool {
	for _, f := range e.categorical {
		if f == field {
			return true
		}
	}
	return false
}
