// Package models defines the core data types shared across the application.
package models

import "time"

// Sparkline holds the 7-day hourly price series returned by the markets endpoint.
type Sparkline struct {
	Price []float64 `json:"price"`
}

// AssetRecord represents one asset as returned by the markets endpoint.
// Records are immutable once received; a new poll replaces them wholesale.
type AssetRecord struct {
	ID               string     `json:"id"`
	Symbol           string     `json:"symbol"`
	Name             string     `json:"name"`
	CurrentPrice     float64    `json:"current_price"`
	High24h          float64    `json:"high_24h"`
	Low24h           float64    `json:"low_24h"`
	ChangePercent24h float64    `json:"price_change_percentage_24h"`
	MarketCap        float64    `json:"market_cap"`
	Volume24h        float64    `json:"total_volume"`
	Sparkline7d      *Sparkline `json:"sparkline_in_7d,omitempty"`
}

// Snapshot is one complete poll result. Records arrive sorted by descending
// market cap; nothing downstream re-sorts them. A new Snapshot fully replaces
// the prior one.
type Snapshot struct {
	Records   []AssetRecord
	FetchedAt time.Time

	byID map[string]int
}

// NewSnapshot creates a Snapshot and indexes its records by asset ID.
func NewSnapshot(records []AssetRecord, fetchedAt time.Time) *Snapshot {
	s := &Snapshot{
		Records:   records,
		FetchedAt: fetchedAt,
		byID:      make(map[string]int, len(records)),
	}
	for i := range records {
		s.byID[records[i].ID] = i
	}
	return s
}

// Find returns the record with the given asset ID.
func (s *Snapshot) Find(assetID string) (AssetRecord, bool) {
	if s == nil {
		return AssetRecord{}, false
	}
	if s.byID != nil {
		if i, ok := s.byID[assetID]; ok {
			return s.Records[i], true
		}
		return AssetRecord{}, false
	}
	for i := range s.Records {
		if s.Records[i].ID == assetID {
			return s.Records[i], true
		}
	}
	return AssetRecord{}, false
}

// Len returns the number of records in the snapshot.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Records)
}
