package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"empty suffix", func(c *Config) { c.OSM.Suffix = "" }, ErrEmptySuffix},
		{"zero workers", func(c *Config) { c.Concurrency.Workers = 0 }, ErrInvalidWorkers},
		{"zero timeout", func(c *Config) { c.HTTP.Timeout = 0 }, ErrInvalidTimeout},
		{"zero max bytes", func(c *Config) { c.HTTP.MaxBodyBytes = 0 }, ErrInvalidMaxBytes},
		{"negative rate", func(c *Config) { c.HTTP.RequestsPerSecond = -1 }, ErrInvalidRate},
		{"bad table", func(c *Config) { c.Store.Table = "osm; drop" }, ErrInvalidTable},
		{"no output", func(c *Config) { c.Filings.OutputPath = "" }, ErrMissingOutputPath},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), tt.want)
		})
	}
}

func TestRecordDocument_StructuralKeysWin(t *testing.T) {
	id := "42"
	rec := NewRecord(KindNode)
	rec.ID = &id
	rec.SetTag("type", "multipolygon")
	rec.SetTag("id", "spoofed")
	rec.SetTag("pos", "here")
	rec.SetTag("amenity", "cafe")

	doc := rec.Document()
	assert.Equal(t, "node", doc[FieldType])
	assert.Equal(t, "42", doc[FieldID])
	assert.NotContains(t, doc, FieldPos, "tag named like a structural key must not leak")
	assert.Equal(t, "cafe", doc["amenity"])
}

func TestRecordMarshalJSON(t *testing.T) {
	pos := Position{41.9, -87.6}
	rec := NewRecord(KindWay)
	rec.Pos = &pos
	version, user := "2", "alice"
	rec.Created = &Provenance{Version: &version, User: &user}
	rec.Address = map[string]string{"street": "Main Street"}
	rec.NodeRefs = []string{"1", "2"}

	raw, err := json.Marshal(rec)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "way", got["type"])
	assert.Equal(t, []any{41.9, -87.6}, got["pos"])
	assert.Equal(t, map[string]any{"version": "2", "user": "alice"}, got["created"])
	assert.Equal(t, []any{"1", "2"}, got["node_refs"])
	assert.NotContains(t, got, "id")
	assert.NotContains(t, got, "visible")
}

func TestRecordTag_NilSafe(t *testing.T) {
	var rec *Record
	_, ok := rec.Tag("name")
	assert.False(t, ok)
}

func TestHoldingKey(t *testing.T) {
	a := Holding{Company: "Apple Inc.", Shares: 10, Symbol: "AAPL"}
	b := Holding{Company: "Apple Inc.", Shares: 10}
	assert.Equal(t, a.Key(), b.Key(), "enrichment fields do not affect identity")

	b.Shares = 11
	assert.NotEqual(t, a.Key(), b.Key())
}
