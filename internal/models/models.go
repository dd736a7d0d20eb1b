// package models defines the data model for the top items proxy
package models

import (
	"encoding/json"
	"fmt"
)

// TimeRange maps a public result key to Spotify's time_range parameter.
type TimeRange struct {
	Key   string // Key is the name used in responses (e.g. last4Weeks)
	Value string // Value is the Spotify time_range query value (e.g. short_term)
	Label string // Label is the human readable heading used in views
}

// TimeRanges lists the fixed windows in response order.
var TimeRanges = []TimeRange{
	{Key: "last4Weeks", Value: "short_term", Label: "Last 4 Weeks"},
	{Key: "last6Months", Value: "medium_term", Label: "Last 6 Months"},
	{Key: "allTime", Value: "long_term", Label: "All Time"},
}

// LookupTimeRange finds a range by its key or by its Spotify value.
func LookupTimeRange(name string) (TimeRange, bool) {
	for _, tr := range TimeRanges {
		if tr.Key == name || tr.Value == name {
			return tr, true
		}
	}
	return TimeRange{}, false
}

// Category selects which kind of top item to fetch.
type Category string

const (
	CategoryTracks  Category = "tracks"
	CategoryArtists Category = "artists"
)

// ParseCategory validates a category name.
func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategoryTracks, CategoryArtists:
		return Category(s), nil
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// TopItems holds up to ten items per time range.
//
// Fields are declared in response order so encoding/json emits last4Weeks, last6Months, allTime.
type TopItems struct {
	Last4Weeks  []json.RawMessage `json:"last4Weeks"`
	Last6Months []json.RawMessage `json:"last6Months"`
	AllTime     []json.RawMessage `json:"allTime"`
}

// NewTopItems returns a value whose ranges encode as empty arrays rather than null.
func NewTopItems() *TopItems {
	return &TopItems{
		Last4Weeks:  []json.RawMessage{},
		Last6Months: []json.RawMessage{},
		AllTime:     []json.RawMessage{},
	}
}

// Set stores items for the range key. Nil items are normalized to an empty slice.
func (t *TopItems) Set(key string, items []json.RawMessage) error {
	if items == nil {
		items = []json.RawMessage{}
	}

	switch key {
	case "last4Weeks":
		t.Last4Weeks = items
	case "last6Months":
		t.Last6Months = items
	case "allTime":
		t.AllTime = items
	default:
		return fmt.Errorf("unknown time range %q", key)
	}
	return nil
}

// Get returns the items for the range key.
func (t *TopItems) Get(key string) []json.RawMessage {
	switch key {
	case "last4Weeks":
		return t.Last4Weeks
	case "last6Months":
		return t.Last6Months
	case "allTime":
		return t.AllTime
	}
	return nil
}

// AuthResult is what a completed authorization yields.
type AuthResult struct {
	DisplayName string
	AccessToken string
}
