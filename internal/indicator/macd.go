package indicator

// MACDHistogram returns MACD line minus signal line at the last point, where
// the MACD line is EMA(fast) - EMA(slow) and the signal line is EMA(signal)
// of the MACD line.
func MACDHistogram(prices []float64, fast, slow, signal int) Value {
	if len(prices) == 0 || fast <= 0 || slow <= 0 || signal <= 0 {
		return Missing()
	}

	fastEMA := EMA(prices, fast)
	slowEMA := EMA(prices, slow)

	line := make([]float64, len(prices))
	for i := range line {
		line[i] = fastEMA[i] - slowEMA[i]
	}
	signalLine := EMA(line, signal)

	last := len(line) - 1
	return Of(line[last] - signalLine[last])
}
