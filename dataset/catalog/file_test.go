package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/hupe1980/tabgo/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFile_PutGet(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "catalog.json")

	c := NewFile(path)

	want := Descriptor{
		Name:        "trades-2026-08",
		Object:      "daily/trades-2026-08.bin.gz",
		Format:      dataset.FormatBinary,
		Compression: dataset.CompressionGzip,
		NumCols:     4,
		NumRows:     1000,
	}
	require.NoError(t, c.Put(ctx, want))

	got, err := c.Get(ctx, "trades-2026-08")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestFile_Get_NotFound(t *testing.T) {
	c := NewFile(filepath.Join(t.TempDir(), "catalog.json"))

	_, err := c.Get(context.Background(), "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestFile_Put_AlreadyExists(t *testing.T) {
	ctx := context.Background()
	c := NewFile(filepath.Join(t.TempDir(), "catalog.json"))

	d := Descriptor{Name: "trades", Object: "trades.csv", Format: dataset.FormatCSV}
	require.NoError(t, c.Put(ctx, d))

	err := c.Put(ctx, d)
	require.ErrorIs(t, err, ErrAlreadyExists)
}

func TestFile_Put_EmptyName(t *testing.T) {
	c := NewFile(filepath.Join(t.TempDir(), "catalog.json"))

	err := c.Put(context.Background(), Descriptor{Object: "trades.csv", Format: dataset.FormatCSV})
	require.Error(t, err)
}

func TestFile_List(t *testing.T) {
	ctx := context.Background()
	c := NewFile(filepath.Join(t.TempDir(), "catalog.json"))

	for _, name := range []string{"zebra", "alpha", "mid"} {
		require.NoError(t, c.Put(ctx, Descriptor{Name: name, Object: name + ".csv", Format: dataset.FormatCSV}))
	}

	names, err := c.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "mid", "zebra"}, names)
}

func TestFile_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "catalog.json")

	c1 := NewFile(path)
	require.NoError(t, c1.Put(ctx, Descriptor{Name: "trades", Object: "trades.csv", Format: dataset.FormatCSV}))

	// A fresh catalog value over the same path sees the registered entry.
	c2 := NewFile(path)
	got, err := c2.Get(ctx, "trades")
	require.NoError(t, err)
	assert.Equal(t, "trades.csv", got.Object)
}

func TestFile_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	c := NewFile(path)

	_, err := c.Get(context.Background(), "trades")
	require.Error(t, err)
}
