package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/abtech/carlytics"
)

// Locator finds the listing nodes of a parsed page.
type Locator interface {
	// Locate returns one selection per listing node in document order.
	// A page without listings yields an empty slice.
	Locate(doc *goquery.Document) []*goquery.Selection

	// Name returns the locator's identifier (e.g., "jiji", "generic").
	Name() string
}

// Ensure locators implement Locator at compile time.
var (
	_ Locator = (*RuleLocator)(nil)
	_ Locator = (*GenericLocator)(nil)
)

// RuleLocator selects listing nodes with the structural selector of a site
// rule, e.g. div.listing-item for Jiji.
type RuleLocator struct {
	rule carlytics.Rule
}

// NewRuleLocator creates a RuleLocator for a site rule.
func NewRuleLocator(rule carlytics.Rule) *RuleLocator {
	return &RuleLocator{rule: rule}
}

// NewJijiLocator creates the locator for Jiji listing items.
func NewJijiLocator() *RuleLocator { return NewRuleLocator(carlytics.RuleJiji) }

// NewChekiLocator creates the locator for Cheki listing units.
func NewChekiLocator() *RuleLocator { return NewRuleLocator(carlytics.RuleCheki) }

// NewCars45Locator creates the locator for Cars45 vehicle cards.
func NewCars45Locator() *RuleLocator { return NewRuleLocator(carlytics.RuleCars45) }

// Name returns the locator's identifier.
func (l *RuleLocator) Name() string {
	return string(l.rule)
}

// Locate returns the nodes matching the rule's selector.
func (l *RuleLocator) Locate(doc *goquery.Document) []*goquery.Selection {
	sel := l.rule.Selector()
	if sel == "" {
		return nil
	}
	return nodes(doc.Find(sel))
}

// GenericLocator selects every element whose class attribute contains
// "listing", ignoring case. It is the fallback for unrecognised sites.
type GenericLocator struct{}

// NewGenericLocator creates a new GenericLocator.
func NewGenericLocator() *GenericLocator {
	return &GenericLocator{}
}

// Name returns the locator's identifier.
func (l *GenericLocator) Name() string {
	return string(carlytics.RuleGeneric)
}

// Locate returns the nodes whose class contains the generic marker.
func (l *GenericLocator) Locate(doc *goquery.Document) []*goquery.Selection {
	return nodes(doc.Find("[class]").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return classContains(s, carlytics.GenericClassMarker)
	}))
}

// nodes splits a selection into one selection per node.
func nodes(sel *goquery.Selection) []*goquery.Selection {
	out := make([]*goquery.Selection, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		out = append(out, s)
	})
	return out
}

// classContains reports whether the class attribute of s contains substr,
// ignoring case.
func classContains(s *goquery.Selection, substr string) bool {
	class, ok := s.Attr("class")
	if !ok {
		return false
	}
	return strings.Contains(strings.ToLower(class), strings.ToLower(substr))
}
