package goquery_test

import (
	"strings"
	"testing"

	gq "github.com/PuerkitoBio/goquery"
	"github.com/abtech/carlytics"
	"github.com/abtech/carlytics/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDoc(t *testing.T, html string) *gq.Document {
	t.Helper()
	doc, err := gq.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func texts(nodes []*gq.Selection) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, strings.TrimSpace(n.Text()))
	}
	return out
}

func TestRuleLocator_Locate(t *testing.T) {
	t.Parallel()

	t.Run("jiji selects listing items in document order", func(t *testing.T) {
		t.Parallel()

		doc := mustDoc(t, `<html><body>
<div class="listing-item">one</div>
<span class="listing-item">not a div</span>
<div class="listing-unit">cheki</div>
<div class="listing-item">two</div>
</body></html>`)

		nodes := goquery.NewJijiLocator().Locate(doc)

		assert.Equal(t, []string{"one", "two"}, texts(nodes))
	})

	t.Run("cheki selects listing units", func(t *testing.T) {
		t.Parallel()

		doc := mustDoc(t, `<div class="listing-unit">a</div><div class="listing-item">b</div>`)

		nodes := goquery.NewChekiLocator().Locate(doc)

		assert.Equal(t, []string{"a"}, texts(nodes))
	})

	t.Run("cars45 selects vehicle cards", func(t *testing.T) {
		t.Parallel()

		doc := mustDoc(t, `<div class="vehicle-card big">a</div><div class="vehicle">b</div>`)

		nodes := goquery.NewCars45Locator().Locate(doc)

		assert.Equal(t, []string{"a"}, texts(nodes))
	})

	t.Run("returns empty when nothing matches", func(t *testing.T) {
		t.Parallel()

		doc := mustDoc(t, `<html><body><p>no cars today</p></body></html>`)

		nodes := goquery.NewJijiLocator().Locate(doc)

		assert.Empty(t, nodes)
	})
}

func TestGenericLocator_Locate(t *testing.T) {
	t.Parallel()

	t.Run("matches class substring ignoring case", func(t *testing.T) {
		t.Parallel()

		doc := mustDoc(t, `<div class="car-Listing-row">a</div>
<li class="LISTINGS">b</li>
<div class="card">c</div>
<div>d</div>`)

		nodes := goquery.NewGenericLocator().Locate(doc)

		assert.Equal(t, []string{"a", "b"}, texts(nodes))
	})

	t.Run("name is generic", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "generic", goquery.NewGenericLocator().Name())
	})
}

func TestListingWaitSelector_MatchesGenericNodes(t *testing.T) {
	t.Parallel()

	doc := mustDoc(t, `<html><body>
<article class="Listing-Card">Toyota</article>
<section class="car-LISTING">Kia</section>
<div class="footer">none</div>
</body></html>`)

	located := goquery.NewGenericLocator().Locate(doc)
	awaited := doc.Find(carlytics.ListingWaitSelector())

	require.Len(t, located, 2)
	assert.Equal(t, len(located), awaited.Length())
	assert.Equal(t, "Toyota", strings.TrimSpace(awaited.First().Text()))
}

func TestLocatorFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		identifier string
		want       string
	}{
		{"Jiji.ng", "jiji"},
		{"https://www.cheki.com.ng", "cheki"},
		{"Cars45", "cars45"},
		{"Autochek", "generic"},
		{"", "generic"},
	}

	for _, tt := range tests {
		t.Run(tt.identifier, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, goquery.LocatorFor(tt.identifier).Name())
		})
	}
}
