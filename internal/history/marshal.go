package history

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/roach88/rpncalc/internal/numeric"
)

// marshalResult converts a Number to its stored TEXT form and kind.
// Finite values are JSON numbers; non-finite floats are JSON strings.
func marshalResult(n numeric.Number) (string, string, error) {
	data, err := json.Marshal(n)
	if err != nil {
		return "", "", fmt.Errorf("marshal result: %w", err)
	}
	return string(data), string(n.Kind()), nil
}

// unmarshalResult parses the stored TEXT form back into a Number.
// Int values are parsed with strconv to avoid float64 precision loss for
// values > 2^53.
func unmarshalResult(data, kind string) (numeric.Number, error) {
	switch numeric.Kind(kind) {
	case numeric.KindInt:
		i, err := strconv.ParseInt(data, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("unmarshal int result %q: %w", data, err)
		}
		return numeric.Int(i), nil

	case numeric.KindFloat:
		var s string
		if err := json.Unmarshal([]byte(data), &s); err == nil {
			n, err := numeric.ParseNonFinite(s)
			if err != nil {
				return nil, fmt.Errorf("unmarshal float result: %w", err)
			}
			return n, nil
		}
		f, err := strconv.ParseFloat(data, 64)
		if err != nil {
			return nil, fmt.Errorf("unmarshal float result %q: %w", data, err)
		}
		// Stored floats were already collapsed; keep the Float kind.
		return numeric.Float(f), nil

	default:
		return nil, fmt.Errorf("unmarshal result: unknown kind %q", kind)
	}
}
