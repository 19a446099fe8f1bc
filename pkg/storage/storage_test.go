package storage

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/shopscope/shopscope/pkg/profile"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "shopscope.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleProfiles() []profile.StoreProfile {
	return []profile.StoreProfile{
		{
			Domain:      "acme.com",
			Platform:    profile.VerdictShopify,
			Description: "Acme sells home decor and related products.",
			Keywords:    []string{"ceramic mugs", "handmade"},
			Meta:        json.RawMessage(`{"shop":{"name":"Acme"}}`),
			Timestamp:   1700000000,
		},
		{
			Domain:    "blog.com",
			Platform:  profile.VerdictNotShopify,
			Timestamp: 1700000000,
		},
		{
			Domain:    "down.com",
			Platform:  profile.VerdictFetchError,
			Error:     "fetch_home_failed: timeout",
			Timestamp: 1700000000,
		},
	}
}

func TestLatestRunEmpty(t *testing.T) {
	db := openTestDB(t)
	_, err := db.LatestRun(context.Background())
	require.ErrorIs(t, err, ErrNoRuns)
}

func TestSaveAndLoadRun(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	started := time.Now().Add(-time.Minute)
	runID, err := db.SaveRun(ctx, started, time.Now(), sampleProfiles())
	require.NoError(t, err)

	run, err := db.LatestRun(ctx)
	require.NoError(t, err)
	require.Equal(t, runID, run.ID)
	require.Equal(t, 3, run.DomainsTotal)
	require.Equal(t, 1, run.StoresFound)

	all, err := db.ProfilesForRun(ctx, runID, false)
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, sampleProfiles(), all)

	qualifying, err := db.ProfilesForRun(ctx, runID, true)
	require.NoError(t, err)
	require.Len(t, qualifying, 1)
	require.Equal(t, "acme.com", qualifying[0].Domain)
}

func TestLatestRunPicksNewest(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	_, err := db.SaveRun(ctx, time.Now(), time.Now(), nil)
	require.NoError(t, err)
	second, err := db.SaveRun(ctx, time.Now(), time.Now(), sampleProfiles())
	require.NoError(t, err)

	run, err := db.LatestRun(ctx)
	require.NoError(t, err)
	require.Equal(t, second, run.ID)
}

func TestWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shopify_data.json")
	require.NoError(t, WriteJSON(path, sampleProfiles()[:1]))

	blob, err := os.ReadFile(path)
	require.NoError(t, err)

	var got []profile.StoreProfile
	require.NoError(t, json.Unmarshal(blob, &got))
	require.Len(t, got, 1)
	require.Equal(t, "acme.com", got[0].Domain)
	require.Equal(t, sampleProfiles()[0].Keywords, got[0].Keywords)
	// MarshalIndent reflows the raw meta blob, so compare it structurally.
	require.JSONEq(t, string(sampleProfiles()[0].Meta), string(got[0].Meta))
}

func TestWriteJSONEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shopify_data.json")
	require.NoError(t, WriteJSON(path, nil))

	blob, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "[]", strings.TrimSpace(string(blob)))
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.csv")
	require.NoError(t, WriteCSV(path, sampleProfiles()[:1]))

	blob, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(blob)), "\n")
	require.Len(t, lines, 2)
	require.Equal(t, "domain,description,keywords", lines[0])
	require.Contains(t, lines[1], "acme.com")
	require.Contains(t, lines[1], "ceramic mugs, handmade")
}
