package main

import (
	"bytes"
	"testing"

	"github.com/abtech/carlytics"
	"github.com/stretchr/testify/assert"
)

func TestRenderCharts(t *testing.T) {
	t.Parallel()

	t.Run("draws bars scaled to the largest value", func(t *testing.T) {
		t.Parallel()

		var stdout, stderr bytes.Buffer
		renderCharts(&stdout, &stderr, []*carlytics.ChartResult{{
			ID:    carlytics.ChartTopNames,
			Title: "Top 10 Most Listed Cars",
			Chart: &carlytics.Chart{Points: []carlytics.Point{
				{Label: "Toyota Camry", Value: 2},
				{Label: "Kia Rio", Value: 1},
			}},
		}})

		out := stdout.String()
		assert.Contains(t, out, "Top 10 Most Listed Cars")
		assert.Contains(t, out, "  Toyota Camry  "+repeat("█", barWidth)+" 2\n")
		assert.Contains(t, out, "  Kia Rio       "+repeat("█", barWidth/2)+" 1\n")
		assert.Empty(t, stderr.String())
	})

	t.Run("marks insufficient charts", func(t *testing.T) {
		t.Parallel()

		var stdout, stderr bytes.Buffer
		renderCharts(&stdout, &stderr, []*carlytics.ChartResult{{
			Title: "Car Listings by Year",
			Chart: &carlytics.Chart{Insufficient: true, Points: []carlytics.Point{{Label: "2015", Value: 3}}},
		}})

		assert.Contains(t, stdout.String(), "insufficient data")
	})

	t.Run("warns about failed charts and keeps rendering", func(t *testing.T) {
		t.Parallel()

		var stdout, stderr bytes.Buffer
		renderCharts(&stdout, &stderr, []*carlytics.ChartResult{
			{Title: "Average Price by Car Model", Err: carlytics.Errorf(carlytics.EINVALID, "listing \"x\" has non-finite price")},
			{Title: "Car Listings by Location", Chart: &carlytics.Chart{Points: []carlytics.Point{{Label: "Lagos", Value: 2}, {Label: "Abuja", Value: 1}}}},
		})

		assert.Contains(t, stderr.String(), `warning: could not render "Average Price by Car Model"`)
		assert.Contains(t, stdout.String(), "Car Listings by Location")
	})
}

func TestFormatValue(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "1200000", formatValue(1200000))
	assert.Equal(t, "1350000.50", formatValue(1350000.5))
}

func repeat(s string, n int) string {
	out := ""
	for range n {
		out += s
	}
	return out
}
