package store

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/wrangle/internal/model"
)

func sampleRecord(id string) *model.Record {
	rec := model.NewRecord(model.KindNode)
	rec.ID = &id
	rec.Pos = &model.Position{33.8, -84.3}
	rec.Address = map[string]string{"street": "North Lincoln Avenue"}
	rec.SetTag("amenity", "pharmacy")
	return rec
}

func TestLineSink_TrailingCommaPerLine(t *testing.T) {
	var buf bytes.Buffer
	sink := NewLineSink(&buf, false)

	require.NoError(t, sink.Put(context.Background(), sampleRecord("1")))
	require.NoError(t, sink.Put(context.Background(), sampleRecord("2")))
	require.NoError(t, sink.Close())
	assert.Equal(t, 2, sink.Count())

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)

	for i, line := range lines {
		require.True(t, strings.HasSuffix(line, ","), "line %d: %s", i, line)

		var doc map[string]any
		require.NoError(t, json.Unmarshal([]byte(strings.TrimSuffix(line, ",")), &doc))
		assert.Equal(t, "node", doc["type"])
		assert.Equal(t, []any{33.8, -84.3}, doc["pos"])
		assert.Equal(t, "pharmacy", doc["amenity"])
	}

	// The stream as a whole is not a single JSON value
	var whole any
	assert.Error(t, json.Unmarshal(buf.Bytes(), &whole))
}

func TestLineSink_Pretty(t *testing.T) {
	var buf bytes.Buffer
	sink := NewLineSink(&buf, true)

	require.NoError(t, sink.Put(context.Background(), sampleRecord("1")))
	require.NoError(t, sink.Close())

	out := buf.String()
	assert.True(t, strings.HasSuffix(out, "},\n"))
	assert.Contains(t, out, "\n  \"amenity\": \"pharmacy\"")
}

func TestCreateLineSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.osm.json")

	sink, err := CreateLineSink(path, false)
	require.NoError(t, err)
	require.NoError(t, sink.Put(context.Background(), sampleRecord("9")))
	require.NoError(t, sink.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	scanner := bufio.NewScanner(f)
	require.True(t, scanner.Scan())
	assert.True(t, strings.HasPrefix(scanner.Text(), "{"))
	assert.False(t, scanner.Scan())
}

func TestLineSink_CancelledContext(t *testing.T) {
	var buf bytes.Buffer
	sink := NewLineSink(&buf, false)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := sink.Put(ctx, sampleRecord("1"))
	assert.ErrorIs(t, err, context.Canceled)
}

type failingSink struct {
	puts int
	err  error
}

func (f *failingSink) Put(ctx context.Context, rec *model.Record) error {
	f.puts++
	return f.err
}

func (f *failingSink) Close() error { return f.err }

func TestMultiSink(t *testing.T) {
	ok := &failingSink{}
	bad := &failingSink{err: errors.New("boom")}
	after := &failingSink{}

	m := MultiSink{ok, bad, after}
	err := m.Put(context.Background(), sampleRecord("1"))
	assert.EqualError(t, err, "boom")
	assert.Equal(t, 1, ok.puts)
	assert.Equal(t, 0, after.puts)

	assert.EqualError(t, m.Close(), "boom")
}

func TestSQLBuilders(t *testing.T) {
	assert.Contains(t, createTableSQL("osm_records"), `CREATE TABLE IF NOT EXISTS "osm_records"`)
	assert.Equal(t, `INSERT INTO "osm_records" (kind, osm_id, doc) VALUES ($1, $2, $3)`, insertSQL("osm_records"))
}

func TestNewPostgresSink_RejectsBadTable(t *testing.T) {
	_, err := NewPostgresSink(context.Background(), "postgres://localhost/none", "osm; DROP TABLE x")
	assert.ErrorIs(t, err, ErrInvalidTable)
}
