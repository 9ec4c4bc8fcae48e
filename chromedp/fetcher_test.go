package chromedp_test

import (
	"context"
	"testing"

	"github.com/abtech/carlytics"
	"github.com/abtech/carlytics/chromedp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure Fetcher implements carlytics.Fetcher.
var _ carlytics.Fetcher = (*chromedp.Fetcher)(nil)

func TestFetcher_Fetch_AfterClose_ReturnsError(t *testing.T) {
	t.Parallel()

	fetcher := chromedp.NewFetcher()
	require.NoError(t, fetcher.Close())
	require.NoError(t, fetcher.Close())

	_, err := fetcher.Fetch(context.Background(), "http://example.com")

	require.Error(t, err)
	assert.Equal(t, carlytics.EINVALID, carlytics.ErrorCode(err))
}

func TestFetcher_Fetch_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := chromedp.NewFetcher().Fetch(ctx, "http://example.com")

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, carlytics.EFETCH, carlytics.ErrorCode(err))
}
