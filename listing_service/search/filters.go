// Package search keeps the guest-facing filter selections and their URL
// query round trip. The same FilterSet the query string encodes is what the
// house store applies to the listings fetch.
package search

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
)

const (
	paramTypes     = "types"
	paramAmenities = "amenities"
	paramMaxPrice  = "maxPrice"
	paramMinRating = "minRating"
)

// FilterSet holds the active filter tokens plus the numeric bounds. Zero
// values mean the filter is not active.
type FilterSet struct {
	Types     map[string]bool
	Amenities map[string]bool
	MaxPrice  int
	MinRating float64
}

func NewFilterSet() *FilterSet {
	return &FilterSet{
		Types:     map[string]bool{},
		Amenities: map[string]bool{},
	}
}

// ParseFilterSet restores a FilterSet from URL query values, the inverse of
// Values. Unknown parameters are ignored, malformed numbers read as zero.
func ParseFilterSet(values url.Values) *FilterSet {
	fs := NewFilterSet()

	for _, token := range splitTokens(values.Get(paramTypes)) {
		fs.Types[token] = true
	}
	for _, token := range splitTokens(values.Get(paramAmenities)) {
		fs.Amenities[token] = true
	}

	if raw := values.Get(paramMaxPrice); raw != "" {
		fs.MaxPrice, _ = strconv.Atoi(raw)
	}
	if raw := values.Get(paramMinRating); raw != "" {
		fs.MinRating, _ = strconv.ParseFloat(raw, 64)
	}

	return fs
}

// Values serializes the set back into URL query values. Tokens join with a
// comma in sorted order so equal sets always encode the same way; inactive
// filters leave no parameter behind.
func (fs *FilterSet) Values() url.Values {
	values := url.Values{}

	if len(fs.Types) > 0 {
		values.Set(paramTypes, joinTokens(fs.Types))
	}
	if len(fs.Amenities) > 0 {
		values.Set(paramAmenities, joinTokens(fs.Amenities))
	}
	if fs.MaxPrice > 0 {
		values.Set(paramMaxPrice, strconv.Itoa(fs.MaxPrice))
	}
	if fs.MinRating > 0 {
		values.Set(paramMinRating, strconv.FormatFloat(fs.MinRating, 'f', -1, 64))
	}

	return values
}

// ToggleType adds the token if absent and removes it if present.
func (fs *FilterSet) ToggleType(token string) {
	toggle(fs.Types, token)
}

func (fs *FilterSet) ToggleAmenity(token string) {
	toggle(fs.Amenities, token)
}

// Clear deactivates every filter, dropping all parameters from the query.
func (fs *FilterSet) Clear() {
	fs.Types = map[string]bool{}
	fs.Amenities = map[string]bool{}
	fs.MaxPrice = 0
	fs.MinRating = 0
}

func (fs *FilterSet) IsEmpty() bool {
	return len(fs.Types) == 0 && len(fs.Amenities) == 0 && fs.MaxPrice == 0 && fs.MinRating == 0
}

func toggle(set map[string]bool, token string) {
	if set[token] {
		delete(set, token)
	} else {
		set[token] = true
	}
}

func splitTokens(raw string) []string {
	if raw == "" {
		return nil
	}
	var tokens []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

func joinTokens(set map[string]bool) string {
	tokens := make([]string, 0, len(set))
	for t := range set {
		tokens = append(tokens, t)
	}
	sort.Strings(tokens)
	return strings.Join(tokens, ",")
}
