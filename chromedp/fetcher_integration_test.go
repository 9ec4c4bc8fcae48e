//go:build integration

package chromedp_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/abtech/carlytics/chromedp"
	"github.com/abtech/carlytics/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetcher_Fetch_ReturnsRenderedListings(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<!DOCTYPE html>
<html>
<body>
<div id="results"></div>
<script>
setTimeout(function () {
  document.getElementById('results').innerHTML =
    '<div class="listing-unit"><h2>Mercedes C300</h2><p class="price">7,200,000</p>' +
    '<p class="location">Abuja</p><p class="year">2013</p></div>';
}, 200);
</script>
</body>
</html>`))
	}))
	defer srv.Close()

	fetcher := chromedp.NewFetcher()
	defer fetcher.Close()

	html, err := fetcher.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)

	records, err := goquery.NewParser().ParseListings(html, "Cheki Nigeria")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Mercedes C300", records[0].Name)
	assert.Equal(t, "7200000", records[0].Price)
}
