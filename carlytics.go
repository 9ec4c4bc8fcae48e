// Package carlytics scrapes car-listing pages, extracts structured records
// (name, price, location, year), cleans them and summarises the result as
// charts with CSV export.
//
// This package contains domain types, interfaces and the pure cleaning and
// aggregation logic following Ben Johnson's Standard Package Layout.
// Implementations live in subdirectories named after their primary
// dependency (e.g., goquery/, rod/, sqlite/).
package carlytics
