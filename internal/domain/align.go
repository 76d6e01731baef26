package domain

// Align projects row onto the manifest: manifest columns missing from row are
// filled with 0, columns the manifest does not name are dropped, and the result
// is in manifest order. Missing and extra columns are not errors.
func Align(row Row, manifest Manifest) []Value {
	out := make([]Value, len(manifest))
	for i, col := range manifest {
		v, ok := row[col]
		if !ok {
			v = Number(0)
		}
		out[i] = v
	}
	return out
}
