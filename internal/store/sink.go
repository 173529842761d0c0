// Package store persists shaped records one at a time.
package store

import (
	"context"

	"github.com/ppiankov/wrangle/internal/model"
)

// Sink accepts records in the order they are produced
type Sink interface {
	Put(ctx context.Context, rec *model.Record) error
	Close() error
}

// MultiSink fans every record out to several sinks
type MultiSink []Sink

// Put writes rec to each sink, stopping at the first failure
func (m MultiSink) Put(ctx context.Context, rec *model.Record) error {
	for _, s := range m {
		if err := s.Put(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}

// Close closes every sink and returns the first error
func (m MultiSink) Close() error {
	var first error
	for _, s := range m {
		if err := s.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
