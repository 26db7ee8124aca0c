package telemetry

import (
	"encoding/json"
	"time"
)

type Stats struct {
	Period        string            `json:"period"`
	EventCounts   map[EventType]int `json:"event_counts"`
	Trades        int               `json:"trades"`
	UnitsBought   int               `json:"units_bought"`
	UnitsSold     int               `json:"units_sold"`
	CurrencySpent int               `json:"currency_spent"`
	CurrencyEarn  int               `json:"currency_earned"`
	Travels       int               `json:"travels"`
	TravelSpend   int               `json:"travel_spend"`
	Hires         int               `json:"hires"`
	Saves         int               `json:"saves"`
	SaveFailures  int               `json:"save_failures"`
	ItemVolume    map[string]int    `json:"item_volume"`
}

// CalculateStats aggregates balance stats from the event journal.
func CalculateStats(events []Event, since time.Time) Stats {
	stats := Stats{
		Period:      since.Format("2006-01-02"),
		EventCounts: make(map[EventType]int),
		ItemVolume:  make(map[string]int),
	}

	for _, event := range events {
		if event.Timestamp.Before(since) {
			continue
		}
		stats.EventCounts[event.Type]++

		var metadata EventMetadata
		if err := json.Unmarshal([]byte(event.Metadata), &metadata); err != nil {
			continue
		}

		switch event.Type {
		case EventBuy:
			stats.Trades++
			stats.UnitsBought += metaInt(metadata, "qty")
			stats.CurrencySpent += metaInt(metadata, "total")
			if item, ok := metadata["item"].(string); ok {
				stats.ItemVolume[item] += metaInt(metadata, "qty")
			}
		case EventSell:
			stats.Trades++
			stats.UnitsSold += metaInt(metadata, "qty")
			stats.CurrencyEarn += metaInt(metadata, "total")
			if item, ok := metadata["item"].(string); ok {
				stats.ItemVolume[item] += metaInt(metadata, "qty")
			}
		case EventTravel:
			stats.Travels++
			stats.TravelSpend += metaInt(metadata, "cost")
		case EventHire:
			stats.Hires++
		case EventSave:
			stats.Saves++
		case EventSaveFailed:
			stats.SaveFailures++
		}
	}

	return stats
}

// metaInt reads a numeric metadata field; JSON numbers decode as float64.
func metaInt(m EventMetadata, key string) int {
	if f, ok := m[key].(float64); ok {
		return int(f)
	}
	return 0
}
