package model

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Metric is a feature value that may be undefined. Undefined values come from
// insufficient history or a zero denominator and must never collapse to 0 or
// NaN. The zero value of Metric is "missing".
type Metric struct {
	Value float64
	Valid bool
}

// Defined wraps a concrete value.
func Defined(v float64) Metric {
	return Metric{Value: v, Valid: true}
}

// Missing is the undefined sentinel.
var Missing = Metric{}

// Or returns the metric's value if defined, otherwise the fallback.
func (m Metric) Or(fallback float64) float64 {
	if m.Valid {
		return m.Value
	}
	return fallback
}

var nullBytes = []byte("null")

// MarshalJSON encodes a missing metric as JSON null.
func (m Metric) MarshalJSON() ([]byte, error) {
	if !m.Valid {
		return nullBytes, nil
	}
	return []byte(strconv.FormatFloat(m.Value, 'g', -1, 64)), nil
}

// UnmarshalJSON decodes JSON null as a missing metric.
func (m *Metric) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, nullBytes) {
		*m = Missing
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*m = Defined(v)
	return nil
}
