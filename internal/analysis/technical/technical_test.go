package technical

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestSMA(t *testing.T) {
	vals := SMA([]float64{1, 2, 3, 4, 5}, 3)
	want := []float64{0, 0, 2, 3, 4}
	if len(vals) != len(want) {
		t.Fatalf("len = %d", len(vals))
	}
	for i := range want {
		if !almostEqual(vals[i], want[i]) {
			t.Errorf("SMA[%d] = %v, want %v", i, vals[i], want[i])
		}
	}
}

func TestMovingAveragesInsufficientData(t *testing.T) {
	if SMA([]float64{1, 2}, 3) != nil {
		t.Error("SMA should return nil for insufficient data")
	}
	if EMA([]float64{1, 2}, 3) != nil {
		t.Error("EMA should return nil for insufficient data")
	}
	if SMA([]float64{1, 2}, 0) != nil {
		t.Error("SMA should return nil for a zero period")
	}
}

func TestEMA(t *testing.T) {
	vals := EMA([]float64{2, 4, 6, 8}, 3)
	// seed = 4, k = 0.5: 8*0.5 + 4*0.5 = 6
	if !almostEqual(vals[2], 4) || !almostEqual(vals[3], 6) {
		t.Errorf("EMA = %v", vals)
	}
}

func TestEMAFollowsUptrend(t *testing.T) {
	data := make([]float64, 50)
	for i := range data {
		data[i] = 100 + float64(i)*1.5
	}
	ema := EMA(data, 10)
	sma := SMA(data, 10)
	// In a linear uptrend the EMA leads the SMA.
	if ema[49] <= sma[49] {
		t.Errorf("EMA %.2f should exceed SMA %.2f in an uptrend", ema[49], sma[49])
	}
}

func TestChangePercent(t *testing.T) {
	tests := []struct {
		name   string
		data   []float64
		want   float64
		wantOK bool
	}{
		{"rise", []float64{100, 90, 125}, 25, true},
		{"fall", []float64{200, 150}, -25, true},
		{"single point", []float64{5}, 0, false},
		{"zero start", []float64{0, 5}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ChangePercent(tt.data)
			if ok != tt.wantOK || !almostEqual(got, tt.want) {
				t.Errorf("ChangePercent = (%v, %v), want (%v, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestOverlayAt(t *testing.T) {
	o := Overlay{Period: 3, Values: SMA([]float64{1, 2, 3, 4}, 3)}
	if o.At(1) != nil {
		t.Error("warm-up positions should be nil")
	}
	if v := o.At(3); v == nil || !almostEqual(*v, 3) {
		t.Errorf("At(3) = %v", v)
	}
	if (Overlay{Period: 3}).At(5) != nil {
		t.Error("empty overlay should be nil everywhere")
	}
}
