package repository

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/okian/skillgap/internal/domain/model"
	"github.com/okian/skillgap/pkg/metrics"
)

const defaultResultCapacity = 10000

// MemoryResultStore implements ResultStore with FIFO eviction by first insertion.
type MemoryResultStore struct {
	mu       sync.RWMutex
	records  map[string]*list.Element
	order    *list.List // of model.AnalysisRecord, front is the oldest
	capacity int
}

// NewMemoryResultStore constructs an empty store.
func NewMemoryResultStore(opts ...ResultOption) *MemoryResultStore {
	s := &MemoryResultStore{
		records:  make(map[string]*list.Element),
		order:    list.New(),
		capacity: defaultResultCapacity,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Put implements ResultStore.Put. Replacing a record keeps its eviction position.
func (s *MemoryResultStore) Put(_ context.Context, rec model.AnalysisRecord) error {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryUpdateLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	if rec.RequestID == "" {
		return ErrInvalidKey
	}

	s.mu.Lock()
	if el, ok := s.records[rec.RequestID]; ok {
		el.Value = rec
		s.mu.Unlock()
		return nil
	}
	evicted := 0
	for s.capacity > 0 && s.order.Len() >= s.capacity {
		oldest := s.order.Front()
		s.order.Remove(oldest)
		delete(s.records, oldest.Value.(model.AnalysisRecord).RequestID)
		evicted++
	}
	s.records[rec.RequestID] = s.order.PushBack(rec)
	count := s.order.Len()
	s.mu.Unlock()

	for range evicted {
		metrics.RecordResultEvicted()
	}
	metrics.UpdateResultsStored(count)
	return nil
}

// Get implements ResultStore.Get.
func (s *MemoryResultStore) Get(_ context.Context, requestID string) (model.AnalysisRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	el, ok := s.records[requestID]
	if !ok {
		return model.AnalysisRecord{}, ErrNotFound
	}
	return el.Value.(model.AnalysisRecord), nil
}

// Delete implements ResultStore.Delete.
func (s *MemoryResultStore) Delete(_ context.Context, requestID string) {
	s.mu.Lock()
	el, ok := s.records[requestID]
	if ok {
		s.order.Remove(el)
		delete(s.records, requestID)
	}
	count := s.order.Len()
	s.mu.Unlock()

	if ok {
		metrics.UpdateResultsStored(count)
	}
}

// Count implements ResultStore.Count.
func (s *MemoryResultStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.order.Len()
}
