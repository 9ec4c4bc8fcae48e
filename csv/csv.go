// Package csv exports clean listing tables as CSV.
package csv

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/abtech/carlytics"
)

// Filename is the default name of an exported table.
const Filename = "car_data_analysis.csv"

// ContentType is the media type of an exported table.
const ContentType = "text/csv; charset=utf-8"

// Header is the first row of every export. There is no index column.
var Header = []string{"name", "price", "location", "year"}

// WriteListings writes the header and one row per listing to w.
func WriteListings(w io.Writer, listings []*carlytics.Listing) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return carlytics.WrapErrorf(err, carlytics.EINTERNAL, "csv: write header: %v", err)
	}
	for _, l := range listings {
		row := []string{
			l.Name,
			carlytics.FormatPrice(l.Price),
			l.Location,
			strconv.Itoa(l.Year),
		}
		if err := cw.Write(row); err != nil {
			return carlytics.WrapErrorf(err, carlytics.EINTERNAL, "csv: write row: %v", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return carlytics.WrapErrorf(err, carlytics.EINTERNAL, "csv: flush: %v", err)
	}
	return nil
}

// WriteFile creates (or truncates) the file at path and writes listings to
// it. Intermediate directories are created automatically.
func WriteFile(path string, listings []*carlytics.Listing) (err error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return carlytics.WrapErrorf(err, carlytics.EINTERNAL, "csv: create output dir: %v", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return carlytics.WrapErrorf(err, carlytics.EINVALID, "csv: create file %q: %v", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = carlytics.WrapErrorf(cerr, carlytics.EINTERNAL, "csv: close file: %v", cerr)
		}
	}()

	return WriteListings(f, listings)
}
