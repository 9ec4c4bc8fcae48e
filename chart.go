package carlytics

import (
	"fmt"
	"math"
	"sort"
	"strconv"
)

// Chart identifiers.
const (
	ChartTopNames          = "top_names"
	ChartAvgPriceByName    = "avg_price_by_name"
	ChartPriceDistribution = "price_distribution"
	ChartYearDistribution  = "year_distribution"
	ChartTopLocations      = "top_locations"
)

// ChartKind tells a renderer how to draw a chart.
type ChartKind string

// Chart kinds.
const (
	KindBar       ChartKind = "bar"
	KindHistogram ChartKind = "histogram"
	KindLine      ChartKind = "line"
)

const (
	chartTopN        = 10
	histogramBins    = 10
	minDistinctValue = 2
)

// Point is one labelled value of a chart series.
type Point struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Chart is an aggregated series ready to be drawn. Insufficient is set when
// the underlying column has fewer than two distinct values.
type Chart struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Kind         ChartKind `json:"kind"`
	Points       []Point   `json:"points"`
	Insufficient bool      `json:"insufficient"`
}

// ChartResult pairs a chart with the error that prevented building it.
type ChartResult struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Chart *Chart `json:"chart,omitempty"`
	Err   error  `json:"-"`
}

// ChartBuilder aggregates listings into a chart.
type ChartBuilder struct {
	ID    string
	Title string
	Build func(listings []*Listing) (*Chart, error)
}

// DefaultChartBuilders returns the dashboard charts in display order.
func DefaultChartBuilders() []ChartBuilder {
	return []ChartBuilder{
		{ID: ChartTopNames, Title: "Top 10 Most Listed Cars", Build: TopNames},
		{ID: ChartAvgPriceByName, Title: "Average Price by Car Model", Build: AvgPriceByName},
		{ID: ChartPriceDistribution, Title: "Price Distribution", Build: PriceDistribution},
		{ID: ChartYearDistribution, Title: "Car Listings by Year", Build: YearDistribution},
		{ID: ChartTopLocations, Title: "Car Listings by Location", Build: TopLocations},
	}
}

// BuildCharts runs every default builder over listings.
func BuildCharts(listings []*Listing) []*ChartResult {
	return BuildChartsWith(listings, DefaultChartBuilders())
}

// BuildChartsWith runs each builder in isolation: a builder that errors or
// panics yields a ChartResult with Err set and does not affect the others.
func BuildChartsWith(listings []*Listing, builders []ChartBuilder) []*ChartResult {
	results := make([]*ChartResult, 0, len(builders))
	for _, b := range builders {
		chart, err := buildChart(b, listings)
		if err == nil && chart != nil {
			chart.ID = b.ID
			chart.Title = b.Title
		}
		results = append(results, &ChartResult{ID: b.ID, Title: b.Title, Chart: chart, Err: err})
	}
	return results
}

func buildChart(b ChartBuilder, listings []*Listing) (chart *Chart, err error) {
	defer func() {
		if r := recover(); r != nil {
			chart, err = nil, Errorf(EINTERNAL, "chart %s: %v", b.ID, r)
		}
	}()
	return b.Build(listings)
}

// TopNames counts listings per name and keeps the ten most frequent.
func TopNames(listings []*Listing) (*Chart, error) {
	counts := make(map[string]float64)
	for _, l := range listings {
		counts[l.Name]++
	}
	return &Chart{
		Kind:         KindBar,
		Points:       topPoints(counts, chartTopN),
		Insufficient: len(counts) < minDistinctValue,
	}, nil
}

// AvgPriceByName computes the mean price per name and keeps the ten highest.
func AvgPriceByName(listings []*Listing) (*Chart, error) {
	sums := make(map[string]float64)
	counts := make(map[string]float64)
	for _, l := range listings {
		if math.IsNaN(l.Price) || math.IsInf(l.Price, 0) {
			return nil, Errorf(EINVALID, "listing %q has non-finite price", l.Name)
		}
		sums[l.Name] += l.Price
		counts[l.Name]++
	}
	means := make(map[string]float64, len(sums))
	for name, sum := range sums {
		means[name] = sum / counts[name]
	}
	return &Chart{
		Kind:         KindBar,
		Points:       topPoints(means, chartTopN),
		Insufficient: len(means) < minDistinctValue,
	}, nil
}

// PriceDistribution buckets prices into equal-width bins between the lowest
// and highest price.
func PriceDistribution(listings []*Listing) (*Chart, error) {
	distinct := make(map[float64]struct{})
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, l := range listings {
		if math.IsNaN(l.Price) || math.IsInf(l.Price, 0) {
			return nil, Errorf(EINVALID, "listing %q has non-finite price", l.Name)
		}
		distinct[l.Price] = struct{}{}
		lo = math.Min(lo, l.Price)
		hi = math.Max(hi, l.Price)
	}
	chart := &Chart{Kind: KindHistogram, Insufficient: len(distinct) < minDistinctValue}
	if chart.Insufficient {
		return chart, nil
	}

	width := (hi - lo) / histogramBins
	bins := make([]float64, histogramBins)
	for _, l := range listings {
		i := int((l.Price - lo) / width)
		if i >= histogramBins {
			i = histogramBins - 1
		}
		bins[i]++
	}
	for i, n := range bins {
		from := lo + float64(i)*width
		chart.Points = append(chart.Points, Point{
			Label: fmt.Sprintf("%s-%s", FormatPrice(math.Round(from)), FormatPrice(math.Round(from+width))),
			Value: n,
		})
	}
	return chart, nil
}

// YearDistribution counts listings per year in ascending year order.
func YearDistribution(listings []*Listing) (*Chart, error) {
	counts := make(map[int]float64)
	for _, l := range listings {
		counts[l.Year]++
	}
	years := make([]int, 0, len(counts))
	for y := range counts {
		years = append(years, y)
	}
	sort.Ints(years)

	chart := &Chart{Kind: KindLine, Insufficient: len(counts) < minDistinctValue}
	for _, y := range years {
		chart.Points = append(chart.Points, Point{Label: strconv.Itoa(y), Value: counts[y]})
	}
	return chart, nil
}

// TopLocations counts listings per location and keeps the ten most frequent.
func TopLocations(listings []*Listing) (*Chart, error) {
	counts := make(map[string]float64)
	for _, l := range listings {
		counts[l.Location]++
	}
	return &Chart{
		Kind:         KindBar,
		Points:       topPoints(counts, chartTopN),
		Insufficient: len(counts) < minDistinctValue,
	}, nil
}

// topPoints sorts values descending, ties by label, and keeps the first n.
func topPoints(values map[string]float64, n int) []Point {
	points := make([]Point, 0, len(values))
	for label, v := range values {
		points = append(points, Point{Label: label, Value: v})
	}
	sort.Slice(points, func(i, j int) bool {
		if points[i].Value != points[j].Value {
			return points[i].Value > points[j].Value
		}
		return points[i].Label < points[j].Label
	})
	if len(points) > n {
		points = points[:n]
	}
	return points
}
