// Package chartview holds the pure data-shaping transforms behind the price
// charts: zoom/scroll windowing and candlestick density reduction. Nothing in
// here keeps state; everything is a function of its inputs.
package chartview

import (
	"math"

	"neurocrypt/src/model"
)

const (
	// At 1x zoom only 80% of the series is shown so there is headroom to
	// scroll in both directions.
	baseZoomVisibleRatio = 0.8

	minVisiblePoints = 10
)

// Bounds computes the visible [start, end) slice of a series of total points
// for the given zoom factor and scroll offset. The scroll offset is clamped
// to keep the window inside the series.
func Bounds(total int, zoom float64, scroll int) (int, int) {
	if total <= 0 {
		return 0, 0
	}

	var visible int
	if zoom == 1 {
		visible = int(math.Floor(float64(total) * baseZoomVisibleRatio))
	} else {
		visible = int(math.Floor(float64(total) / zoom))
		if visible < minVisiblePoints {
			visible = minVisiblePoints
		}
	}

	maxScroll := total - visible
	if maxScroll < 0 {
		maxScroll = 0
	}
	if scroll > maxScroll {
		scroll = maxScroll
	}
	if scroll < 0 {
		scroll = 0
	}

	end := scroll + visible
	if end > total {
		end = total
	}
	return scroll, end
}

// WindowPoints returns the visible sub-window of a price series.
func WindowPoints(points []model.PricePoint, zoom float64, scroll int) []model.PricePoint {
	start, end := Bounds(len(points), zoom, scroll)
	return points[start:end]
}

// WindowCandles returns the visible sub-window of a candle series.
func WindowCandles(candles []model.Candle, zoom float64, scroll int) []model.Candle {
	start, end := Bounds(len(candles), zoom, scroll)
	return candles[start:end]
}
