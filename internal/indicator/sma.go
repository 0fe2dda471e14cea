package indicator

// SMA returns the rolling mean over every full window of prices, oldest
// first: len(prices)-period+1 values, or none when the series is shorter
// than period.
func SMA(prices []float64, period int) []float64 {
	if period <= 0 || len(prices) < period {
		return []float64{}
	}

	result := make([]float64, 0, len(prices)-period+1)

	// Calculate first SMA
	var sum float64
	for i := 0; i < period; i++ {
		sum += prices[i]
	}
	result = append(result, sum/float64(period))

	// Rolling calculation
	for i := period; i < len(prices); i++ {
		sum = sum - prices[i-period] + prices[i]
		result = append(result, sum/float64(period))
	}

	return result
}

// LastSMA returns the mean of the trailing period values, or a missing value
// when fewer than period values exist.
func LastSMA(prices []float64, period int) Value {
	series := SMA(prices, period)
	if len(series) == 0 {
		return Missing()
	}
	return Of(series[len(series)-1])
}

// EMA calculates an Exponential Moving Average with alpha = 2/(span+1),
// seeded from the first value without bias correction. The result has the
// same length as prices.
func EMA(prices []float64, span int) []float64 {
	if span <= 0 || len(prices) == 0 {
		return []float64{}
	}

	result := make([]float64, len(prices))
	alpha := 2.0 / float64(span+1)

	ema := prices[0]
	result[0] = ema
	for i := 1; i < len(prices); i++ {
		// Incremental form keeps a constant input exactly constant.
		ema += alpha * (prices[i] - ema)
		result[i] = ema
	}

	return result
}
