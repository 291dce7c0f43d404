package service

import (
	"math"
	"sort"

	"github.com/google/uuid"
)

// Signal weights: a qualifying review (rating >= 4) says more about taste
// than a purchase does.
const (
	orderSignalWeight  = 1.0
	reviewSignalWeight = 1.5
)

// PreferenceEvent is one unit of taste signal mined from a user's history.
type PreferenceEvent struct {
	MenuItemID uuid.UUID
	Category   string
	StallID    uuid.UUID
	Price      float64
	Weight     float64
}

// RankedEntry is one favorite category or stall with its accumulated weight.
type RankedEntry struct {
	Key    string
	Weight float64
}

// PreferenceProfile ranks a user's favorite categories and stalls and
// summarizes the price band they order in. Derived per request, never stored.
type PreferenceProfile struct {
	Categories []RankedEntry
	Stalls     []RankedEntry
	PriceMin   float64
	PriceMax   float64
	PriceAvg   float64
}

// BuildPreferenceProfile tallies category, stall and price statistics over
// the given events. Ranking is by descending weight; ties keep the order the
// events arrived in, which the caller feeds newest-first.
func BuildPreferenceProfile(events []PreferenceEvent) *PreferenceProfile {
	profile := &PreferenceProfile{}
	if len(events) == 0 {
		return profile
	}

	catWeight := make(map[string]float64)
	stallWeight := make(map[string]float64)
	var catOrder, stallOrder []string

	var totalWeight, weightedPriceSum float64
	profile.PriceMin = math.MaxFloat64

	for _, ev := range events {
		if _, seen := catWeight[ev.Category]; !seen {
			catOrder = append(catOrder, ev.Category)
		}
		catWeight[ev.Category] += ev.Weight

		stallKey := ev.StallID.String()
		if _, seen := stallWeight[stallKey]; !seen {
			stallOrder = append(stallOrder, stallKey)
		}
		stallWeight[stallKey] += ev.Weight

		if ev.Price < profile.PriceMin {
			profile.PriceMin = ev.Price
		}
		if ev.Price > profile.PriceMax {
			profile.PriceMax = ev.Price
		}
		totalWeight += ev.Weight
		weightedPriceSum += ev.Price * ev.Weight
	}

	profile.PriceAvg = weightedPriceSum / totalWeight
	profile.Categories = rankEntries(catOrder, catWeight)
	profile.Stalls = rankEntries(stallOrder, stallWeight)
	return profile
}

func rankEntries(order []string, weights map[string]float64) []RankedEntry {
	entries := make([]RankedEntry, 0, len(order))
	for _, key := range order {
		entries = append(entries, RankedEntry{Key: key, Weight: weights[key]})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Weight > entries[j].Weight
	})
	return entries
}

// TopCategories returns up to n favorite category names.
func (p *PreferenceProfile) TopCategories(n int) []string {
	if n > len(p.Categories) {
		n = len(p.Categories)
	}
	cats := make([]string, 0, n)
	for _, e := range p.Categories[:n] {
		cats = append(cats, e.Key)
	}
	return cats
}

// categoryRank returns the 1-based favorite rank of a category, 0 if absent.
func (p *PreferenceProfile) categoryRank(category string) int {
	for i, e := range p.Categories {
		if e.Key == category {
			return i + 1
		}
	}
	return 0
}

// knowsStall reports whether the stall appears anywhere in the user's
// history.
func (p *PreferenceProfile) knowsStall(stallID uuid.UUID) bool {
	key := stallID.String()
	for _, e := range p.Stalls {
		if e.Key == key {
			return true
		}
	}
	return false
}

// ScoreCandidate scores one candidate item against a preference profile.
// Already-tried items are softly demoted rather than excluded, since the
// wider candidate tiers deliberately resurface them.
func ScoreCandidate(category string, stallID uuid.UUID, price float64,
	profile *PreferenceProfile, avgRating float64, photoCount int, alreadyTried bool) float64 {

	var score float64

	switch profile.categoryRank(category) {
	case 1:
		score += 30
	case 2:
		score += 20
	case 3:
		score += 10
	}

	score += avgRating * 15

	if !profile.knowsStall(stallID) {
		score += 20
	}

	if spread := profile.PriceMax - profile.PriceMin; spread > 0 {
		affinity := 10 * (1 - math.Abs(price-profile.PriceAvg)/spread)
		if affinity > 0 {
			score += affinity
		}
	} else if math.Abs(price-profile.PriceAvg) <= 2 {
		score += 10
	}

	score += math.Min(float64(photoCount)*5, 15)

	if alreadyTried {
		score *= 0.3
	}

	return score
}
