package carlytics

import (
	"strconv"
	"time"
)

// Default field values used when a listing field cannot be located.
const (
	DefaultName     = "Unknown"
	DefaultLocation = "Unknown"
	DefaultPrice    = "0"
	DefaultYear     = "0"
)

// MinYear is the earliest plausible manufacturing year for a listed car.
const MinYear = 1886

// MaxYear returns the latest plausible manufacturing year: next year's
// models are routinely listed before the calendar catches up.
func MaxYear() int {
	return time.Now().Year() + 1
}

// RawRecord holds the field values extracted from one listing node before
// any type coercion or validation.
type RawRecord struct {
	Name     string `json:"name"`
	Price    string `json:"price"`
	Location string `json:"location"`
	Year     string `json:"year"`
}

// Listing is a clean record: it has passed numeric coercion, positivity
// filtering and year imputation.
type Listing struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Location string  `json:"location"`
	Year     int     `json:"year"`
}

// Validate returns an error if the listing breaks a clean-record invariant.
func (l *Listing) Validate() error {
	if l.Name == "" {
		return Errorf(EINVALID, "listing name required")
	}
	if l.Price <= 0 {
		return Errorf(EINVALID, "listing price must be positive")
	}
	if l.Year < MinYear || l.Year > MaxYear() {
		return Errorf(EINVALID, "listing year %d out of range", l.Year)
	}
	return nil
}

// RawRecords converts clean listings back into raw records, so a clean
// table can be fed through Normalize again.
func RawRecords(listings []*Listing) []*RawRecord {
	records := make([]*RawRecord, 0, len(listings))
	for _, l := range listings {
		records = append(records, &RawRecord{
			Name:     l.Name,
			Price:    FormatPrice(l.Price),
			Location: l.Location,
			Year:     strconv.Itoa(l.Year),
		})
	}
	return records
}

// FormatPrice renders a price with the shortest representation that parses
// back to the same value.
func FormatPrice(price float64) string {
	return strconv.FormatFloat(price, 'f', -1, 64)
}
