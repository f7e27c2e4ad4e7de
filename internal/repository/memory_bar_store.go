package repository

import (
	"context"
	"fmt"
	"sync"

	"StockRadar/internal/domain/models"
)

// MemoryBarStore is an in-memory BarSource for tests and local development.
type MemoryBarStore struct {
	mu          sync.RWMutex
	series      map[string]*models.BarSeries
	instruments map[string]models.Instrument
	order       []string
}

// NewMemoryBarStore creates an empty in-memory bar store.
func NewMemoryBarStore() *MemoryBarStore {
	return &MemoryBarStore{
		series:      make(map[string]*models.BarSeries),
		instruments: make(map[string]models.Instrument),
	}
}

// Add registers an instrument with its bar series. Universe order follows
// insertion order.
func (s *MemoryBarStore) Add(meta models.Instrument, series *models.BarSeries) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.series[meta.Symbol]; !exists {
		s.order = append(s.order, meta.Symbol)
	}
	s.series[meta.Symbol] = series
	s.instruments[meta.Symbol] = meta
}

func (s *MemoryBarStore) LatestBars(_ context.Context, symbol string, n int) (*models.BarSeries, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	src, ok := s.series[symbol]
	if !ok {
		return nil, fmt.Errorf("unknown symbol %s", symbol)
	}
	bars := src.Bars
	if len(bars) > n {
		bars = bars[len(bars)-n:]
	}
	out := make([]models.PriceBar, len(bars))
	copy(out, bars)
	return &models.BarSeries{Symbol: symbol, Bars: out}, nil
}

func (s *MemoryBarStore) Instrument(_ context.Context, symbol string) (models.Instrument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.instruments[symbol]
	if !ok {
		return models.Instrument{}, fmt.Errorf("unknown symbol %s", symbol)
	}
	return m, nil
}

func (s *MemoryBarStore) Universe(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, len(s.order))
	copy(out, s.order)
	return out, nil
}
