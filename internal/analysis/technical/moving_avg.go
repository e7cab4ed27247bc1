// Package technical computes chart overlays from a price series.
package technical

// SMA calculates the simple moving average for period. Positions before
// the first full window are zero. It returns nil when data is shorter than
// period.
func SMA(data []float64, period int) []float64 {
	n := len(data)
	if n < period || period <= 0 {
		return nil
	}

	result := make([]float64, n)
	sum := 0.0
	for i := 0; i < period; i++ {
		sum += data[i]
	}
	result[period-1] = sum / float64(period)

	for i := period; i < n; i++ {
		sum += data[i] - data[i-period]
		result[i] = sum / float64(period)
	}
	return result
}

// EMA calculates the exponential moving average for period, seeded with
// the SMA of the first window.
func EMA(data []float64, period int) []float64 {
	n := len(data)
	if n < period || period <= 0 {
		return nil
	}

	ema := make([]float64, n)
	k := 2.0 / float64(period+1)

	sum := 0.0
	for i := 0; i < period; i++ {
		sum += data[i]
	}
	ema[period-1] = sum / float64(period)

	for i := period; i < n; i++ {
		ema[i] = data[i]*k + ema[i-1]*(1-k)
	}
	return ema
}

// ChangePercent returns the change from the first to the last value, in
// percent. ok is false when it is undefined.
func ChangePercent(data []float64) (pct float64, ok bool) {
	if len(data) < 2 || data[0] == 0 {
		return 0, false
	}
	return (data[len(data)-1] - data[0]) / data[0] * 100, true
}

// Overlay is a moving average aligned with its source series.
type Overlay struct {
	Period int
	Values []float64
}

// At returns the overlay value at i, or nil inside the warm-up window.
func (o Overlay) At(i int) *float64 {
	if o.Values == nil || i < o.Period-1 || i >= len(o.Values) {
		return nil
	}
	v := o.Values[i]
	return &v
}
