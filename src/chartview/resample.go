package chartview

import (
	"math"

	"neurocrypt/src/model"
)

// Downsample thins a candle series so bars stay readable: above 100 points
// every ceil(n/100)th bar is kept, above 50 every 2nd. The 1m interval is
// exempt so minute charts keep their full resolution.
func Downsample(candles []model.Candle, interval string) []model.Candle {
	if interval == "1m" {
		return candles
	}

	n := len(candles)
	switch {
	case n > 100:
		step := int(math.Ceil(float64(n) / 100))
		return sample(candles, step)
	case n > 50:
		return sample(candles, 2)
	default:
		return candles
	}
}

func sample(candles []model.Candle, step int) []model.Candle {
	out := make([]model.Candle, 0, len(candles)/step+1)
	for i := 0; i < len(candles); i += step {
		out = append(out, candles[i])
	}
	return out
}
