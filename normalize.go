package carlytics

import (
	"math"
	"slices"
	"strconv"
	"strings"
)

// NormalizeStats describes what Normalize did to a batch.
type NormalizeStats struct {
	Input          int     `json:"input"`
	DroppedPrice   int     `json:"droppedPrice"`
	DroppedMissing int     `json:"droppedMissing"`
	ImputedYears   int     `json:"imputedYears"`
	MedianYear     float64 `json:"medianYear"`
}

// Normalize turns raw records into clean listings.
// See NormalizeWithStats for the rules.
func Normalize(records []*RawRecord) []*Listing {
	listings, _ := NormalizeWithStats(records)
	return listings
}

// NormalizeWithStats turns raw records into clean listings. The steps run in
// this order:
//
//  1. price and year are coerced to numbers; unparseable values (and years
//     outside [MinYear, MaxYear()]) become missing, not zero
//  2. records whose price is missing or <= 0 are dropped
//  3. missing years are replaced by the floor of the median of the present
//     years among the surviving records
//  4. records still missing a required field are dropped
//
// Filtering prices before computing the median keeps bad price data out of
// the imputation baseline. An empty batch after step 2 yields an empty
// table.
func NormalizeWithStats(records []*RawRecord) ([]*Listing, NormalizeStats) {
	stats := NormalizeStats{Input: len(records)}

	type row struct {
		name     string
		price    float64
		location string
		year     int
		hasYear  bool
	}

	rows := make([]row, 0, len(records))
	for _, r := range records {
		if r == nil {
			stats.DroppedMissing++
			continue
		}
		price, ok := coercePrice(r.Price)
		if !ok || price <= 0 {
			stats.DroppedPrice++
			continue
		}
		year, hasYear := coerceYear(r.Year)
		rows = append(rows, row{
			name:     textOrDefault(r.Name, DefaultName),
			price:    price,
			location: textOrDefault(r.Location, DefaultLocation),
			year:     year,
			hasYear:  hasYear,
		})
	}

	listings := make([]*Listing, 0, len(rows))
	if len(rows) == 0 {
		return listings, stats
	}

	var years []float64
	for _, r := range rows {
		if r.hasYear {
			years = append(years, float64(r.year))
		}
	}
	median, hasMedian := Median(years)
	stats.MedianYear = median

	for _, r := range rows {
		if !r.hasYear {
			if !hasMedian {
				stats.DroppedMissing++
				continue
			}
			r.year = int(math.Floor(median))
			stats.ImputedYears++
		}
		listings = append(listings, &Listing{
			Name:     r.name,
			Price:    r.price,
			Location: r.location,
			Year:     r.year,
		})
	}

	return listings, stats
}

// Median returns the median of values. The second result is false when
// values is empty.
func Median(values []float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid], true
	}
	return (sorted[mid-1] + sorted[mid]) / 2, true
}

func coercePrice(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func coerceYear(s string) (int, bool) {
	s = strings.TrimSpace(s)
	n, err := strconv.Atoi(s)
	if err != nil {
		// Accept "2019.0" style values from re-normalized tables.
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || f != math.Trunc(f) {
			return 0, false
		}
		n = int(f)
	}
	if n < MinYear || n > MaxYear() {
		return 0, false
	}
	return n, true
}

func textOrDefault(s, def string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	return s
}
