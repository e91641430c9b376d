package models

import "time"

// Direction indicates which way a price must cross a threshold.
type Direction string

const (
	// DirectionAbove fires when the current price is strictly above the threshold.
	DirectionAbove Direction = "above"
	// DirectionBelow fires when the current price is strictly below the threshold.
	DirectionBelow Direction = "below"
)

// ParseDirection converts a string into a Direction.
func ParseDirection(s string) (Direction, bool) {
	switch Direction(s) {
	case DirectionAbove:
		return DirectionAbove, true
	case DirectionBelow:
		return DirectionBelow, true
	}
	return "", false
}

// Alert represents a price alert. An alert fires at most once and is removed
// from its registry the moment its condition is satisfied.
type Alert struct {
	ID        string
	AssetID   string
	Threshold float64
	Direction Direction
	CreatedAt time.Time
}

// FiredAlert is the notification event produced when an alert fires.
type FiredAlert struct {
	Alert     Alert
	AssetName string
	Symbol    string
	Price     float64
	FiredAt   time.Time
}
