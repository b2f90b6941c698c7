package analysis

// TrimToZeroCrossing drops the prefix before the first upward sign change of
// angles and shifts the remaining times so the series starts at zero. The
// returned slices are fresh copies.
func TrimToZeroCrossing(times, angles []float64) ([]float64, []float64, error) {
	if len(times) != len(angles) {
		return nil, nil, ErrLengthMismatch
	}
	start := -1
	for i := 0; i+1 < len(angles); i++ {
		if sign(angles[i+1])-sign(angles[i]) > 0 {
			start = i
			break
		}
	}
	if start < 0 {
		return nil, nil, ErrNoZeroCrossing
	}

	t0 := times[start]
	t := make([]float64, len(times)-start)
	y := make([]float64, len(angles)-start)
	for i := range t {
		t[i] = times[start+i] - t0
		y[i] = angles[start+i]
	}
	return t, y, nil
}

// TruncateSpan keeps the samples with t0 <= t <= t1.
func TruncateSpan(times, angles []float64, t0, t1 float64) ([]float64, []float64) {
	var t, y []float64
	for i := range times {
		if times[i] >= t0 && times[i] <= t1 {
			t = append(t, times[i])
			y = append(y, angles[i])
		}
	}
	return t, y
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
