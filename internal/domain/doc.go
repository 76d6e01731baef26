// Package domain models weather observations and the preprocessing that turns
// them into the feature vector a fitted rain classifier expects.
//
// # Input
//
// Observations arrive as flat JSON objects with arbitrary keys whose values are
// strings or numbers, e.g.
//
//	{"MinTemp": 15, "MaxTemp": 25, "Rainfall": 0, "RainToday": "No", "WindGustDir": "NW"}
//
// Any subset of the fitted schema may be present. Keys the model was not fitted on
// are accepted and ignored (they are dropped by [Align]).
//
// # Feature reconstruction
//
// The classifier and scaler operate positionally, so the vector handed to them
// must have exactly the columns of the [Manifest] in manifest order. The steps,
// in order:
//
//	NormalizeSchema   absent categorical fields become explicit nulls
//	Imputer           nulls are replaced with the fitted most-frequent value
//	Encoding.Encode   categorical values become indicator columns
//	Align             missing columns are zero-filled, extras dropped, order fixed
//	Coerce            every cell becomes a float64; non-numeric cells become 0
//
// # Indicator encoding
//
// The fitted category universe is read from the manifest itself: a column named
// "WindGustDir_NW" registers category "NW" for field "WindGustDir". One category
// per field was dropped at fit time (the reference level) and has no column.
// A value outside the fitted universe sets no indicator and is therefore encoded
// exactly like the reference level.
//
// # Risk tiers
//
// Probabilities are reported as percentages and bucketed:
//
//	p >= 75        High Risk
//	40 <= p < 75   Moderate Risk
//	p < 40         Low Risk
//
// The tier is derived from the unrounded percentage; the reported probability
// is rounded to two decimals (see [RoundProbability]).
package domain
