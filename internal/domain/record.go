package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// CategoricalFields lists the observation fields imputed and indicator-encoded
// at fit time, in the order the imputer was fitted on.
var CategoricalFields = []string{"RainToday", "WindGustDir", "WindDir9am", "WindDir3pm"}

// InputRecord is one observation keyed by field name. It is created per request
// and never shared between requests.
type InputRecord map[string]Value

// DecodeInputRecord parses a JSON object into an InputRecord. Anything other
// than an object (arrays, scalars, null, invalid JSON) yields an error wrapping
// ErrMalformedRequest.
func DecodeInputRecord(data []byte) (InputRecord, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return nil, ErrMalformedRequest
	}

	var rec InputRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRequest, err)
	}
	if rec == nil {
		rec = InputRecord{}
	}
	return rec, nil
}

// CanonicalJSON encodes the record with keys sorted, so two records holding the
// same fields produce identical bytes regardless of input key order. Records
// holding non-finite numbers have no canonical form and yield an error.
func (r InputRecord) CanonicalJSON() ([]byte, error) {
	for k, v := range r {
		if f, ok := v.Float(); ok && (math.IsInf(f, 0) || math.IsNaN(f)) {
			return nil, fmt.Errorf("field %q holds non-finite number %v", k, f)
		}
	}
	// encoding/json sorts map keys.
	return json.Marshal(map[string]Value(r))
}

// NormalizeSchema returns a copy of rec in which every name in fields is present;
// absent fields are set to Null. rec is not modified.
func NormalizeSchema(rec InputRecord, fields []string) InputRecord {
	out := make(InputRecord, len(rec)+len(fields))
	for k, v := range rec {
		out[k] = v
	}
	for _, f := range fields {
		if _, ok := out[f]; !ok {
			out[f] = Null()
		}
	}
	return out
}
