package goquery_test

import (
	"testing"

	gq "github.com/PuerkitoBio/goquery"
	"github.com/abtech/carlytics"
	"github.com/abtech/carlytics/goquery"
	"github.com/stretchr/testify/assert"
)

func firstNode(t *testing.T, html string) *gq.Selection {
	t.Helper()
	return mustDoc(t, html).Find("div.listing-item").First()
}

func TestExtract(t *testing.T) {
	t.Parallel()

	t.Run("reads all fields from the primary probes", func(t *testing.T) {
		t.Parallel()

		node := firstNode(t, `<div class="listing-item">
	<h2> Toyota Camry </h2>
	<div class="price">₦ 1,200,000</div>
	<div class="location">Lagos</div>
	<div class="year">2015</div>
</div>`)

		got := goquery.Extract(node)

		assert.Equal(t, &carlytics.RawRecord{
			Name:     "Toyota Camry",
			Price:    "1200000",
			Location: "Lagos",
			Year:     "2015",
		}, got)
	})

	t.Run("falls through the probe chain", func(t *testing.T) {
		t.Parallel()

		node := firstNode(t, `<div class="listing-item">
	<h2>   </h2>
	<p class="car-name">Kia Rio</p>
	<span class="amount-ngn">850,000.50</span>
	<span class="area-label">Abuja</span>
	<span class="yr">'2018</span>
</div>`)

		got := goquery.Extract(node)

		assert.Equal(t, "Kia Rio", got.Name)
		assert.Equal(t, "850000.50", got.Price)
		assert.Equal(t, "Abuja", got.Location)
		assert.Equal(t, "2018", got.Year)
	})

	t.Run("class substring probes ignore case", func(t *testing.T) {
		t.Parallel()

		node := firstNode(t, `<div class="listing-item">
	<h3>Honda Accord</h3>
	<b class="CarPrice">500000</b>
	<i class="item-Location">Kano</i>
	<i class="model-YEAR">2012</i>
</div>`)

		got := goquery.Extract(node)

		assert.Equal(t, &carlytics.RawRecord{
			Name:     "Honda Accord",
			Price:    "500000",
			Location: "Kano",
			Year:     "2012",
		}, got)
	})

	t.Run("missing fields take defaults", func(t *testing.T) {
		t.Parallel()

		node := firstNode(t, `<div class="listing-item"><p>nothing useful</p></div>`)

		got := goquery.Extract(node)

		assert.Equal(t, &carlytics.RawRecord{
			Name:     carlytics.DefaultName,
			Price:    carlytics.DefaultPrice,
			Location: carlytics.DefaultLocation,
			Year:     carlytics.DefaultYear,
		}, got)
	})

	t.Run("value that strips to empty takes the default", func(t *testing.T) {
		t.Parallel()

		node := firstNode(t, `<div class="listing-item">
	<div class="price">Negotiable</div>
	<div class="year">n/a</div>
</div>`)

		got := goquery.Extract(node)

		assert.Equal(t, carlytics.DefaultPrice, got.Price)
		assert.Equal(t, carlytics.DefaultYear, got.Year)
	})
}

func TestFirstMatch(t *testing.T) {
	t.Parallel()

	node := firstNode(t, `<div class="listing-item"><h3>Peugeot 406</h3></div>`)

	t.Run("returns first present value", func(t *testing.T) {
		t.Parallel()

		got := goquery.FirstMatch(node, []goquery.Probe{goquery.Tag("h2"), goquery.Tag("h3")}, "x")

		assert.Equal(t, "Peugeot 406", got)
	})

	t.Run("panicking probe counts as no match", func(t *testing.T) {
		t.Parallel()

		boom := func(*gq.Selection) (string, bool) { panic("boom") }

		got := goquery.FirstMatch(node, []goquery.Probe{boom, goquery.Tag("h3")}, "x")

		assert.Equal(t, "Peugeot 406", got)
	})

	t.Run("returns default when nothing matches", func(t *testing.T) {
		t.Parallel()

		got := goquery.FirstMatch(node, []goquery.Probe{goquery.Tag("h2")}, "fallback")

		assert.Equal(t, "fallback", got)
	})

	t.Run("no probes returns default", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "d", goquery.FirstMatch(node, nil, "d"))
	})
}

func TestField_Read(t *testing.T) {
	t.Parallel()

	node := firstNode(t, `<div class="listing-item"><div class="price">₦ 850,000</div></div>`)

	t.Run("cleans the matched value", func(t *testing.T) {
		t.Parallel()

		f := goquery.NewExtractor().Price

		assert.Equal(t, "850000", f.Read(node))
	})

	t.Run("panicking clean takes the default", func(t *testing.T) {
		t.Parallel()

		f := goquery.Field{
			Probes:  []goquery.Probe{goquery.ClassToken("price")},
			Clean:   func(string) string { panic("clean failed") },
			Default: carlytics.DefaultPrice,
		}

		assert.Equal(t, carlytics.DefaultPrice, f.Read(node))
	})

	t.Run("one failing field leaves the others intact", func(t *testing.T) {
		t.Parallel()

		e := goquery.NewExtractor()
		e.Name.Clean = func(string) string { panic("clean failed") }

		got := e.Extract(node)

		assert.Equal(t, carlytics.DefaultName, got.Name)
		assert.Equal(t, "850000", got.Price)
	})
}
