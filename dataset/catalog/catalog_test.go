package catalog

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/hupe1980/tabgo/dataset"
	"github.com/hupe1980/tabgo/dataset/fetch"
	"github.com/hupe1980/tabgo/field"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_CSV(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "trades.csv"), []byte("10,1,5,2\n20,3,1,7\n5,9,0,1\n"), 0o600))

	c := NewFile(filepath.Join(dir, "catalog.json"))
	require.NoError(t, c.Put(ctx, Descriptor{
		Name:    "trades",
		Object:  "trades.csv",
		Format:  dataset.FormatCSV,
		NumCols: 4,
	}))

	src, err := Resolve(ctx, c, fetch.NewLocal(dir), "trades")
	require.NoError(t, err)
	require.Equal(t, 4, src.NumCols())

	buf, numRows, err := dataset.ReadAll(ctx, src)
	require.NoError(t, err)
	require.Equal(t, 3, numRows)
	assert.Equal(t, int32(10), field.Get(buf, 0))
	assert.Equal(t, int32(1), field.Get(buf, 11*field.Width))
}

func TestResolve_GzipBinary(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	mem, err := dataset.NewMemory(4, [][]int32{
		{10, 1, 5, 2},
		{20, 3, 1, 7},
		{5, 9, 0, 1},
	})
	require.NoError(t, err)

	var plain bytes.Buffer
	require.NoError(t, dataset.WriteBinary(ctx, &plain, mem))

	var compressed bytes.Buffer
	zw := gzip.NewWriter(&compressed)
	_, err = zw.Write(plain.Bytes())
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, os.WriteFile(filepath.Join(dir, "trades.bin.gz"), compressed.Bytes(), 0o600))

	c := NewFile(filepath.Join(dir, "catalog.json"))
	require.NoError(t, c.Put(ctx, Descriptor{
		Name:        "trades",
		Object:      "trades.bin.gz",
		Format:      dataset.FormatBinary,
		Compression: dataset.CompressionGzip,
	}))

	src, err := Resolve(ctx, c, fetch.NewLocal(dir), "trades")
	require.NoError(t, err)

	want, wantRows, err := dataset.ReadAll(ctx, mem)
	require.NoError(t, err)

	got, gotRows, err := dataset.ReadAll(ctx, src)
	require.NoError(t, err)
	assert.Equal(t, wantRows, gotRows)
	assert.Equal(t, want, got)
}

func TestResolve_ColumnMismatch(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "trades.csv"), []byte("10,1,5,2\n"), 0o600))

	c := NewFile(filepath.Join(dir, "catalog.json"))
	require.NoError(t, c.Put(ctx, Descriptor{
		Name:    "trades",
		Object:  "trades.csv",
		Format:  dataset.FormatCSV,
		NumCols: 5,
	}))

	_, err := Resolve(ctx, c, fetch.NewLocal(dir), "trades")
	require.ErrorContains(t, err, "descriptor declares")
}

func TestResolve_DescriptorNotFound(t *testing.T) {
	dir := t.TempDir()
	c := NewFile(filepath.Join(dir, "catalog.json"))

	_, err := Resolve(context.Background(), c, fetch.NewLocal(dir), "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestResolve_ObjectNotFound(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	c := NewFile(filepath.Join(dir, "catalog.json"))
	require.NoError(t, c.Put(ctx, Descriptor{Name: "trades", Object: "gone.csv", Format: dataset.FormatCSV}))

	_, err := Resolve(ctx, c, fetch.NewLocal(dir), "trades")
	require.ErrorIs(t, err, fetch.ErrNotFound)
}
