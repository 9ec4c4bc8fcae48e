package rod_test

import (
	"context"
	"testing"
	"time"

	"github.com/abtech/carlytics"
	"github.com/abtech/carlytics/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure Fetcher implements carlytics.Fetcher.
var _ carlytics.Fetcher = (*rod.Fetcher)(nil)

func TestFetcher_Close_Idempotent(t *testing.T) {
	t.Parallel()

	fetcher := rod.NewFetcher()

	require.NoError(t, fetcher.Close())
	require.NoError(t, fetcher.Close())
}

func TestFetcher_Fetch_AfterClose_ReturnsError(t *testing.T) {
	t.Parallel()

	fetcher := rod.NewFetcher()
	require.NoError(t, fetcher.Close())

	_, err := fetcher.Fetch(context.Background(), "http://example.com")

	require.Error(t, err)
	assert.Equal(t, carlytics.EINVALID, carlytics.ErrorCode(err))
	assert.Contains(t, carlytics.ErrorMessage(err), "closed")
}

func TestFetcher_Fetch_CanceledContext(t *testing.T) {
	t.Parallel()

	fetcher := rod.NewFetcher(rod.WithFetchTimeout(time.Second))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := fetcher.Fetch(ctx, "http://example.com")

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, carlytics.EFETCH, carlytics.ErrorCode(err))
}
