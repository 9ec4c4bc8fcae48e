package main_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/abtech/carlytics"
	main "github.com/abtech/carlytics/cmd/carlytics"
	"github.com/abtech/carlytics/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRunDeps(runs carlytics.RunService) (*main.Dependencies, *bytes.Buffer, *bytes.Buffer) {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	return &main.Dependencies{
		Ctx:    context.Background(),
		Stdout: stdout,
		Stderr: stderr,
		Runs:   runs,
	}, stdout, stderr
}

func TestHistoryCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("lists runs with source filter", func(t *testing.T) {
		t.Parallel()

		var got carlytics.RunFilter
		runs := &mock.RunService{
			FindRunsFn: func(ctx context.Context, filter carlytics.RunFilter) ([]*carlytics.Run, error) {
				got = filter
				return []*carlytics.Run{{
					ID:           "run-1",
					Source:       "Jiji.ng",
					Fingerprint:  "0123456789abcdef",
					ListingCount: 3,
					CreatedAt:    time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
				}}, nil
			},
		}
		deps, stdout, _ := newRunDeps(runs)

		err := (&main.HistoryCmd{Source: "Jiji.ng", Limit: 5}).Run(deps)

		require.NoError(t, err)
		require.NotNil(t, got.Source)
		assert.Equal(t, "Jiji.ng", *got.Source)
		assert.Equal(t, 5, got.Limit)
		out := stdout.String()
		assert.Contains(t, out, "FINGERPRINT")
		assert.Contains(t, out, "run-1")
		assert.Contains(t, out, "0123456789abcdef")
	})

	t.Run("reports storage errors", func(t *testing.T) {
		t.Parallel()

		runs := &mock.RunService{
			FindRunsFn: func(ctx context.Context, filter carlytics.RunFilter) ([]*carlytics.Run, error) {
				assert.Nil(t, filter.Source)
				return nil, carlytics.Errorf(carlytics.EINTERNAL, "disk full")
			},
		}
		deps, _, stderr := newRunDeps(runs)

		err := (&main.HistoryCmd{Limit: 20}).Run(deps)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "error: disk full")
	})
}

func TestExportCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("writes archived listings", func(t *testing.T) {
		t.Parallel()

		runs := &mock.RunService{
			FindRunByIDFn: func(ctx context.Context, id string) (*carlytics.Run, error) {
				return &carlytics.Run{ID: id, Source: "Cars45", Listings: testListings()}, nil
			},
		}
		deps, stdout, _ := newRunDeps(runs)
		path := filepath.Join(t.TempDir(), "out", "run.csv")

		err := (&main.ExportCmd{RunID: "run-1", Out: path}).Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Wrote 3 listings from Cars45 to "+path)
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "Kia Rio,850000,Abuja,2019\n")
	})

	t.Run("unknown run", func(t *testing.T) {
		t.Parallel()

		runs := &mock.RunService{
			FindRunByIDFn: func(ctx context.Context, id string) (*carlytics.Run, error) {
				return nil, carlytics.Errorf(carlytics.ENOTFOUND, "run not found")
			},
		}
		deps, _, stderr := newRunDeps(runs)

		err := (&main.ExportCmd{RunID: "missing", Out: filepath.Join(t.TempDir(), "x.csv")}).Run(deps)

		require.Error(t, err)
		assert.Equal(t, carlytics.ENOTFOUND, carlytics.ErrorCode(err))
		assert.Contains(t, stderr.String(), "carlytics history")
	})
}

func TestDeleteCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("requires force", func(t *testing.T) {
		t.Parallel()

		runs := &mock.RunService{
			DeleteRunFn: func(ctx context.Context, id string) error {
				t.Fatal("DeleteRun should not be called")
				return nil
			},
		}
		deps, _, stderr := newRunDeps(runs)

		err := (&main.DeleteCmd{RunID: "run-1"}).Run(deps)

		require.Error(t, err)
		assert.Equal(t, carlytics.EINVALID, carlytics.ErrorCode(err))
		assert.Contains(t, stderr.String(), "--force")
	})

	t.Run("deletes with force", func(t *testing.T) {
		t.Parallel()

		var deleted string
		runs := &mock.RunService{
			DeleteRunFn: func(ctx context.Context, id string) error {
				deleted = id
				return nil
			},
		}
		deps, stdout, _ := newRunDeps(runs)

		err := (&main.DeleteCmd{RunID: "run-1", Force: true}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, "run-1", deleted)
		assert.Contains(t, stdout.String(), "Deleted run run-1")
	})
}
