package cli

import (
	"math"
	"strings"

	"github.com/fatih/color"
)

// sparkRunes are the block characters used to draw a sparkline, lowest to highest.
var sparkRunes = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders a price series as a fixed-width unicode sparkline.
// The series is downsampled by averaging buckets so a 7-day hourly series
// fits the requested width. Returns "" for an empty series.
func Sparkline(series []float64, width int) string {
	if len(series) == 0 || width <= 0 {
		return ""
	}

	points := resample(series, width)

	min, max := points[0], points[0]
	for _, p := range points {
		if p < min {
			min = p
		}
		if p > max {
			max = p
		}
	}

	var b strings.Builder
	span := max - min
	for _, p := range points {
		idx := 0
		if span > 0 {
			idx = int(math.Round((p - min) / span * float64(len(sparkRunes)-1)))
		}
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkRunes) {
			idx = len(sparkRunes) - 1
		}
		b.WriteRune(sparkRunes[idx])
	}
	return b.String()
}

// ColoredSparkline renders the sparkline colored by overall trend: green
// when the series ends higher than it starts, red when lower.
func ColoredSparkline(series []float64, width int, colorEnabled bool) string {
	line := Sparkline(series, width)
	if line == "" || !colorEnabled || len(series) < 2 {
		return line
	}

	first, last := series[0], series[len(series)-1]
	switch {
	case last > first:
		return color.New(color.FgGreen).Sprint(line)
	case last < first:
		return color.New(color.FgRed).Sprint(line)
	default:
		return line
	}
}

// resample reduces (or stretches) a series to exactly width points by
// averaging equal-sized buckets.
func resample(series []float64, width int) []float64 {
	if len(series) <= width {
		return series
	}

	out := make([]float64, width)
	bucket := float64(len(series)) / float64(width)
	for i := 0; i < width; i++ {
		start := int(float64(i) * bucket)
		end := int(float64(i+1) * bucket)
		if end > len(series) {
			end = len(series)
		}
		if start >= end {
			start = end - 1
		}
		sum := 0.0
		for _, v := range series[start:end] {
			sum += v
		}
		out[i] = sum / float64(end-start)
	}
	return out
}
