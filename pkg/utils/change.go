package utils

import "math"

// Change is the direction of a price or value movement.
type Change int

const (
	Neutral Change = iota
	Positive
	Negative
)

// ClassifyChange reports whether v is a gain, a loss or flat.
// NaN counts as flat.
func ClassifyChange(v float64) Change {
	switch {
	case math.IsNaN(v):
		return Neutral
	case v > 0:
		return Positive
	case v < 0:
		return Negative
	default:
		return Neutral
	}
}

// ClassifyChangePtr is ClassifyChange for nullable fields.
func ClassifyChangePtr(v *float64) Change {
	if v == nil {
		return Neutral
	}
	return ClassifyChange(*v)
}

func (c Change) String() string {
	switch c {
	case Positive:
		return "positive"
	case Negative:
		return "negative"
	default:
		return "neutral"
	}
}

// Class returns the text color class the front-end uses for c.
func (c Change) Class() string {
	switch c {
	case Positive:
		return "text-green-500"
	case Negative:
		return "text-red-500"
	default:
		return "text-gray-500"
	}
}

// MarshalText lets Change serialize as its name.
func (c Change) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}
