//go:build integration

package rod_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/abtech/carlytics"
	"github.com/abtech/carlytics/goquery"
	"github.com/abtech/carlytics/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetcher_Fetch_ReturnsRenderedListings(t *testing.T) {
	t.Parallel()

	// Serve a page that uses JavaScript to add listing nodes after a delay
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<!DOCTYPE html>
<html>
<body>
<div id="results">Loading...</div>
<script>
setTimeout(function () {
  document.getElementById('results').innerHTML =
    '<div class="vehicle-card"><h3>Lexus RX 350</h3><span class="price">₦ 9,500,000</span>' +
    '<span class="location">Ikeja</span><span class="year">2014</span></div>';
}, 200);
</script>
</body>
</html>`))
	}))
	defer srv.Close()

	fetcher := rod.NewFetcher()
	defer fetcher.Close()

	html, err := fetcher.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.NotContains(t, html, "Loading...")

	records, err := goquery.NewParser().ParseListings(html, "Cars45")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, &carlytics.RawRecord{
		Name:     "Lexus RX 350",
		Price:    "9500000",
		Location: "Ikeja",
		Year:     "2014",
	}, records[0])
}

func TestFetcher_Fetch_NoListingsIsNotAnError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body><p>No cars found</p></body></html>`))
	}))
	defer srv.Close()

	fetcher := rod.NewFetcher(rod.WithWaitTimeout(300 * time.Millisecond))
	defer fetcher.Close()

	html, err := fetcher.Fetch(context.Background(), srv.URL)

	require.NoError(t, err)
	assert.Contains(t, html, "No cars found")
}

func TestFetcher_Fetch_TimeoutTriggersOnSlowPage(t *testing.T) {
	t.Parallel()

	// Server that delays longer than the fetch timeout
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(5 * time.Second)
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body>delayed</body></html>`))
	}))
	defer srv.Close()

	fetcher := rod.NewFetcher(rod.WithFetchTimeout(2 * time.Second))
	defer fetcher.Close()

	_, err := fetcher.Fetch(context.Background(), srv.URL)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, carlytics.EFETCH, carlytics.ErrorCode(err))
}
