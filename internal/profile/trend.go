package profile

import (
	"sort"
	"time"
)

const monthLayout = "2006-01"

// TrendPoint is one month's observation count. Months with no observations
// are omitted, not zero-filled.
type TrendPoint struct {
	Month string `yaml:"month" json:"month"`
	Count int    `yaml:"count" json:"count"`
}

// DiscoveryTrend buckets unique tracks by the calendar month of their
// earliest AddedAt. Each track lands in exactly one bucket; tracks without a
// resolvable date are excluded. The series is chronologically ascending.
func DiscoveryTrend(tracks []Track) []TrendPoint {
	dates := make([]time.Time, 0, len(tracks))
	for _, t := range tracks {
		if t.AddedAt.IsZero() {
			continue
		}
		dates = append(dates, t.AddedAt)
	}
	return bucketByMonth(dates)
}

// ActivityTrend buckets every row occurrence with a resolvable date by
// calendar month, duplicates included. This measures raw adding activity
// rather than novelty.
func ActivityTrend(occurrences []time.Time) []TrendPoint {
	dated := make([]time.Time, 0, len(occurrences))
	for _, d := range occurrences {
		if d.IsZero() {
			continue
		}
		dated = append(dated, d)
	}
	return bucketByMonth(dated)
}

func bucketByMonth(dates []time.Time) []TrendPoint {
	counts := make(map[string]int)
	for _, d := range dates {
		counts[d.Format(monthLayout)]++
	}

	out := make([]TrendPoint, 0, len(counts))
	for month, count := range counts {
		out = append(out, TrendPoint{Month: month, Count: count})
	}
	// YYYY-MM keys sort chronologically as strings.
	sort.Slice(out, func(i, j int) bool {
		return out[i].Month < out[j].Month
	})
	return out
}
