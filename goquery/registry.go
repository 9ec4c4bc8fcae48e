package goquery

import (
	"github.com/abtech/carlytics"
)

// Registry maps locator rules to locators and picks one for a source
// identifier, falling back to a generic locator when the identifier is not
// recognised or no locator is registered for its rule.
type Registry struct {
	fallback Locator
	locators map[carlytics.Rule]Locator
}

// NewRegistry creates a new Registry with the given fallback locator.
func NewRegistry(fallback Locator) *Registry {
	return &Registry{
		fallback: fallback,
		locators: make(map[carlytics.Rule]Locator),
	}
}

// NewDefaultRegistry returns a Registry with the Jiji, Cheki and Cars45
// locators registered and the generic locator as fallback.
func NewDefaultRegistry() *Registry {
	r := NewRegistry(NewGenericLocator())
	r.Register(carlytics.RuleJiji, NewJijiLocator())
	r.Register(carlytics.RuleCheki, NewChekiLocator())
	r.Register(carlytics.RuleCars45, NewCars45Locator())
	return r
}

// Get returns the locator for a specific rule.
// Returns nil if no locator is registered for the rule.
func (r *Registry) Get(rule carlytics.Rule) Locator {
	return r.locators[rule]
}

// ForSource returns the locator for a source identifier, chosen with
// carlytics.RuleFor. Falls back to the fallback locator.
func (r *Registry) ForSource(identifier string) Locator {
	if l, ok := r.locators[carlytics.RuleFor(identifier)]; ok {
		return l
	}
	return r.fallback
}

// Register adds a locator for a rule.
// If a locator is already registered for the rule, it is replaced.
func (r *Registry) Register(rule carlytics.Rule, locator Locator) {
	r.locators[rule] = locator
}

// List returns all registered rules.
func (r *Registry) List() []carlytics.Rule {
	rules := make([]carlytics.Rule, 0, len(r.locators))
	for rule := range r.locators {
		rules = append(rules, rule)
	}
	return rules
}

// LocatorFor returns the default locator for a source identifier.
func LocatorFor(identifier string) Locator {
	return NewDefaultRegistry().ForSource(identifier)
}
