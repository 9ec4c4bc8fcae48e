package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/abtech/carlytics"
)

// Probe looks for a field value inside a listing node. It returns the
// trimmed text and whether a non-empty value was found.
type Probe func(node *goquery.Selection) (string, bool)

// Tag probes for the first descendant element with the given tag name.
func Tag(name string) Probe {
	return func(node *goquery.Selection) (string, bool) {
		return firstText(node.Find(name))
	}
}

// ClassToken probes for the first descendant carrying the exact class token.
func ClassToken(class string) Probe {
	return func(node *goquery.Selection) (string, bool) {
		return firstText(node.Find("." + class))
	}
}

// ClassContains probes for the first descendant with the given tag whose
// class attribute contains substr, ignoring case. Tag "*" matches any
// element.
func ClassContains(tag, substr string) Probe {
	return func(node *goquery.Selection) (string, bool) {
		return firstText(node.Find(tag + "[class]").FilterFunction(func(_ int, s *goquery.Selection) bool {
			return classContains(s, substr)
		}))
	}
}

// firstText returns the text of the first element in sel with non-empty
// trimmed text.
func firstText(sel *goquery.Selection) (string, bool) {
	var text string
	sel.EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text = strings.TrimSpace(s.Text())
		return text == ""
	})
	return text, text != ""
}

// FirstMatch runs probes in order and returns the first value found.
// A probe that panics counts as no match. Returns def when nothing matches.
func FirstMatch(node *goquery.Selection, probes []Probe, def string) string {
	for _, probe := range probes {
		if v, ok := try(probe, node); ok {
			return v
		}
	}
	return def
}

func try(probe Probe, node *goquery.Selection) (v string, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			v, ok = "", false
		}
	}()
	return probe(node)
}

// Field describes how one record field is read from a listing node.
type Field struct {
	Probes  []Probe
	Clean   func(string) string // optional; applied to the matched text
	Default string
}

// Read extracts the field from node. A value that cleans to empty falls
// back to the default, and so does a panic in a probe or in Clean.
func (f Field) Read(node *goquery.Selection) (v string) {
	defer func() {
		if r := recover(); r != nil {
			v = f.Default
		}
	}()

	v = FirstMatch(node, f.Probes, f.Default)
	if f.Clean != nil {
		v = f.Clean(v)
	}
	if v == "" {
		return f.Default
	}
	return v
}

// Extractor reads a RawRecord from a listing node.
type Extractor struct {
	Name     Field
	Price    Field
	Location Field
	Year     Field
}

// NewExtractor returns an Extractor with the standard probe chains.
func NewExtractor() *Extractor {
	return &Extractor{
		Name: Field{
			Probes:  []Probe{Tag("h2"), Tag("h3"), ClassContains("*", "name")},
			Default: carlytics.DefaultName,
		},
		Price: Field{
			Probes:  []Probe{ClassToken("price"), ClassContains("*", "price"), ClassContains("span", "amount")},
			Clean:   keepDigitsAndDot,
			Default: carlytics.DefaultPrice,
		},
		Location: Field{
			Probes:  []Probe{ClassToken("location"), ClassContains("*", "location"), ClassContains("span", "area")},
			Default: carlytics.DefaultLocation,
		},
		Year: Field{
			Probes:  []Probe{ClassToken("year"), ClassContains("*", "year"), ClassContains("span", "yr")},
			Clean:   keepDigits,
			Default: carlytics.DefaultYear,
		},
	}
}

// Extract reads all four fields from node. Fields fail independently.
func (e *Extractor) Extract(node *goquery.Selection) *carlytics.RawRecord {
	return &carlytics.RawRecord{
		Name:     e.Name.Read(node),
		Price:    e.Price.Read(node),
		Location: e.Location.Read(node),
		Year:     e.Year.Read(node),
	}
}

// Extract reads a RawRecord from node with the standard extractor.
func Extract(node *goquery.Selection) *carlytics.RawRecord {
	return NewExtractor().Extract(node)
}

func keepDigitsAndDot(s string) string {
	return strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' {
			return r
		}
		return -1
	}, s)
}

func keepDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}
