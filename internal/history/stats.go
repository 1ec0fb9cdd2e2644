// Package history aggregates selection history entries. Every function here
// is a pure computation over entries already loaded from a store.
package history

import (
	"sort"
	"time"

	"github.com/bradykim7/mealroulette/internal/models"
)

const dayLayout = "2006-01-02"

// Since returns the start of a trailing window of days ending at now
func Since(now time.Time, days int) time.Time {
	return now.AddDate(0, 0, -days)
}

func selectedSince(e *models.SelectionHistoryEntry, since time.Time) bool {
	return !e.SelectedAt.Before(since)
}

// WasSelectedWithin reports whether the item was picked in the last days
func WasSelectedWithin(entries []models.SelectionHistoryEntry, itemType models.ItemType, itemID string, days int, now time.Time) bool {
	if days <= 0 {
		return false
	}
	since := Since(now, days)
	for i := range entries {
		e := &entries[i]
		if e.ItemType == itemType && e.ItemID == itemID && selectedSince(e, since) {
			return true
		}
	}
	return false
}

// ExcludedIDs collects the ids of itemType picked at or after since
func ExcludedIDs(entries []models.SelectionHistoryEntry, itemType models.ItemType, since time.Time) map[string]struct{} {
	ids := make(map[string]struct{})
	for i := range entries {
		e := &entries[i]
		if e.ItemType == itemType && selectedSince(e, since) {
			ids[e.ItemID] = struct{}{}
		}
	}
	return ids
}

// DayCount is the number of picks per item type on one calendar day
type DayCount struct {
	Date        string `json:"date"`
	Meals       int    `json:"meals"`
	Restaurants int    `json:"restaurants"`
}

// Total returns the picks of both types
func (d DayCount) Total() int {
	return d.Meals + d.Restaurants
}

// DailyCounts returns one row per day for the last days ending today, oldest
// first. Days without picks are present with zero counts.
func DailyCounts(entries []models.SelectionHistoryEntry, days int, now time.Time) []DayCount {
	if days <= 0 {
		return nil
	}

	loc := now.Location()
	rows := make([]DayCount, days)
	index := make(map[string]int, days)
	for i := 0; i < days; i++ {
		date := now.AddDate(0, 0, i-days+1).Format(dayLayout)
		rows[i] = DayCount{Date: date}
		index[date] = i
	}

	for i := range entries {
		e := &entries[i]
		pos, ok := index[e.SelectedAt.In(loc).Format(dayLayout)]
		if !ok {
			continue
		}
		switch e.ItemType {
		case models.ItemTypeMeal:
			rows[pos].Meals++
		case models.ItemTypeRestaurant:
			rows[pos].Restaurants++
		}
	}
	return rows
}

// CountByType totals the entries per item type
func CountByType(entries []models.SelectionHistoryEntry) map[models.ItemType]int {
	counts := make(map[models.ItemType]int, len(models.ItemTypes))
	for _, t := range models.ItemTypes {
		counts[t] = 0
	}
	for i := range entries {
		counts[entries[i].ItemType]++
	}
	return counts
}

// ItemFrequency is how often one item was picked
type ItemFrequency struct {
	ItemType       models.ItemType `json:"item_type"`
	ItemID         string          `json:"item_id"`
	ItemName       string          `json:"item_name,omitempty"`
	Count          int             `json:"count"`
	LastSelectedAt time.Time       `json:"last_selected_at"`
}

// Key identifies the item across both catalogs
func (f ItemFrequency) Key() string {
	return models.ItemKey(f.ItemType, f.ItemID)
}

// MostSelected ranks items by pick count, most recent pick breaking ties.
// A limit of zero or less returns every item.
func MostSelected(entries []models.SelectionHistoryEntry, limit int) []ItemFrequency {
	byKey := make(map[string]*ItemFrequency)
	for i := range entries {
		e := &entries[i]
		f, ok := byKey[e.Key()]
		if !ok {
			f = &ItemFrequency{ItemType: e.ItemType, ItemID: e.ItemID}
			byKey[e.Key()] = f
		}
		f.Count++
		if !e.SelectedAt.Before(f.LastSelectedAt) {
			f.LastSelectedAt = e.SelectedAt
			if e.ItemName != "" {
				f.ItemName = e.ItemName
			}
		}
	}

	ranked := make([]ItemFrequency, 0, len(byKey))
	for _, f := range byKey {
		ranked = append(ranked, *f)
	}
	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		if !a.LastSelectedAt.Equal(b.LastSelectedAt) {
			return a.LastSelectedAt.After(b.LastSelectedAt)
		}
		return a.Key() < b.Key()
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
