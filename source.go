package carlytics

import "strings"

// Rule identifies the strategy used to locate listing nodes for one site
// family.
type Rule string

// Supported locator rules.
const (
	RuleGeneric Rule = "generic"
	RuleJiji    Rule = "jiji"
	RuleCheki   Rule = "cheki"
	RuleCars45  Rule = "cars45"
)

// Selector returns the CSS selector matching listing nodes for the rule.
// The generic rule matches on a class substring instead and returns "".
func (r Rule) Selector() string {
	switch r {
	case RuleJiji:
		return "div.listing-item"
	case RuleCheki:
		return "div.listing-unit"
	case RuleCars45:
		return "div.vehicle-card"
	}
	return ""
}

// GenericClassMarker is the class substring (case-insensitive) that marks a
// listing node under the generic rule.
const GenericClassMarker = "listing"

// RuleFor picks the locator rule for a source identifier. Matching is a
// case-insensitive substring test and the first match wins; anything
// unrecognised gets the generic rule.
func RuleFor(identifier string) Rule {
	id := strings.ToLower(identifier)
	switch {
	case strings.Contains(id, "jiji"):
		return RuleJiji
	case strings.Contains(id, "cheki"):
		return RuleCheki
	case strings.Contains(id, "cars45"):
		return RuleCars45
	}
	return RuleGeneric
}

// ListingWaitSelector matches a listing node under any rule. Browser
// fetchers wait for it before serializing the page.
func ListingWaitSelector() string {
	return strings.Join([]string{
		RuleJiji.Selector(),
		RuleCheki.Selector(),
		RuleCars45.Selector(),
		"[class*='" + GenericClassMarker + "' i]",
	}, ", ")
}

// RenderMode says how a source's page has to be fetched.
type RenderMode string

// Render modes.
const (
	RenderStatic  RenderMode = "static"
	RenderBrowser RenderMode = "browser"
)

// Source is one entry of the source catalog.
type Source struct {
	Name   string     `json:"name"`
	URL    string     `json:"url"`
	Rule   Rule       `json:"rule"`
	Render RenderMode `json:"render"`
}

// Validate returns an error if the source contains invalid fields.
func (s *Source) Validate() error {
	if s.Name == "" {
		return Errorf(EINVALID, "source name required")
	}
	if s.URL == "" {
		return Errorf(EINVALID, "source URL required")
	}
	return nil
}

// DefaultSources returns the closed catalog of supported listing sites.
// Jiji serves listings in its static HTML; the others render client-side.
func DefaultSources() []*Source {
	return []*Source{
		newSource("Jiji.ng", "https://www.jiji.ng/cars", RenderStatic),
		newSource("Cheki Nigeria", "https://www.cheki.com.ng", RenderBrowser),
		newSource("Cars45", "https://www.cars45.com", RenderBrowser),
		newSource("Autochek", "https://autochek.africa/ng", RenderBrowser),
	}
}

func newSource(name, url string, render RenderMode) *Source {
	return &Source{Name: name, URL: url, Rule: RuleFor(name), Render: render}
}

// FindSource returns the source whose name matches name case-insensitively.
// Returns ENOTFOUND if no source matches.
func FindSource(sources []*Source, name string) (*Source, error) {
	for _, s := range sources {
		if strings.EqualFold(s.Name, strings.TrimSpace(name)) {
			return s, nil
		}
	}
	return nil, Errorf(ENOTFOUND, "source %q not found", name)
}
