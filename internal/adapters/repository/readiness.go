package repository

import (
	"context"
	"math/rand/v2"
	"sort"
	"sync"
	"time"

	"github.com/okian/skillgap/internal/domain/normalize"
	"github.com/okian/skillgap/internal/domain/types"
	"github.com/okian/skillgap/pkg/metrics"
)

// Treap-based, in-memory ReadinessStore.
//
// Ordering: readiness DESC, then learnerID ASC. "less" means ranks earlier, so
// an in-order traversal yields the ranking from most to least ready.

const maxReadiness = 100

type node struct {
	id        string
	readiness int
	prio      uint64
	left      *node
	right     *node
	size      int
}

func nsize(n *node) int {
	if n == nil {
		return 0
	}
	return n.size
}

func fix(n *node) {
	if n != nil {
		n.size = 1 + nsize(n.left) + nsize(n.right)
	}
}

func less(aReady int, aID string, bReady int, bID string) bool {
	if aReady != bReady {
		return aReady > bReady
	}
	return aID < bID
}

func rotateRight(y *node) *node {
	x := y.left
	y.left = x.right
	x.right = y
	fix(y)
	fix(x)
	return x
}

func rotateLeft(x *node) *node {
	y := x.right
	x.right = y.left
	y.left = x
	fix(x)
	fix(y)
	return y
}

func insert(n *node, id string, readiness int, prio uint64) *node {
	if n == nil {
		return &node{id: id, readiness: readiness, prio: prio, size: 1}
	}
	if less(readiness, id, n.readiness, n.id) {
		n.left = insert(n.left, id, readiness, prio)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	} else {
		n.right = insert(n.right, id, readiness, prio)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}
	fix(n)
	return n
}

func deleteNode(n *node, id string, readiness int) *node {
	if n == nil {
		return nil
	}
	switch {
	case readiness == n.readiness && id == n.id:
		if n.left == nil {
			return n.right
		}
		if n.right == nil {
			return n.left
		}
		if n.left.prio > n.right.prio {
			n = rotateRight(n)
			n.right = deleteNode(n.right, id, readiness)
		} else {
			n = rotateLeft(n)
			n.left = deleteNode(n.left, id, readiness)
		}
	case less(readiness, id, n.readiness, n.id):
		n.left = deleteNode(n.left, id, readiness)
	default:
		n.right = deleteNode(n.right, id, readiness)
	}
	fix(n)
	return n
}

// collectTopN appends up to limit nodes in rank order.
func collectTopN(n *node, limit int, out *[]*node) {
	if n == nil || len(*out) >= limit {
		return
	}
	collectTopN(n.left, limit, out)
	if len(*out) < limit {
		*out = append(*out, n)
	}
	if len(*out) < limit {
		collectTopN(n.right, limit, out)
	}
}

// board is the ranking of one role.
type board struct {
	name   string // display form of the first role name seen
	root   *node
	byID   map[string]int
	counts [maxReadiness + 1]int // learners per readiness value
}

// denseRank is 1 + the number of distinct readiness values above r.
func (b *board) denseRank(r int) int {
	rank := 1
	for v := maxReadiness; v > r; v-- {
		if b.counts[v] > 0 {
			rank++
		}
	}
	return rank
}

// ReadinessIndex implements ReadinessStore with one treap per role. Role names
// are matched case- and whitespace-insensitively.
type ReadinessIndex struct {
	mu     sync.RWMutex
	boards map[string]*board
	seed   uint64
	rng    *rand.Rand
}

// NewReadinessIndex constructs an empty index.
func NewReadinessIndex(opts ...ReadinessOption) *ReadinessIndex {
	r := &ReadinessIndex{
		boards: make(map[string]*board),
		seed:   uint64(time.Now().UnixNano()),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.rng = rand.New(rand.NewPCG(r.seed, r.seed^0x9e3779b97f4a7c15))
	return r
}

// Upsert implements ReadinessStore.Upsert in O(log n) expected time.
func (r *ReadinessIndex) Upsert(_ context.Context, role, learnerID string, readiness int) error {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryUpdateLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	key := normalize.Canonical(role)
	if key == "" || learnerID == "" {
		return ErrInvalidKey
	}
	if readiness < 0 || readiness > maxReadiness {
		metrics.RecordErrorByComponent("repository", "invalid_readiness")
		return ErrInvalidReadiness
	}

	r.mu.Lock()
	b, ok := r.boards[key]
	if !ok {
		b = &board{name: normalize.Display(role), byID: make(map[string]int)}
		r.boards[key] = b
	}
	if old, ok := b.byID[learnerID]; ok {
		if old == readiness {
			r.mu.Unlock()
			return nil
		}
		b.root = deleteNode(b.root, learnerID, old)
		b.counts[old]--
	}
	b.byID[learnerID] = readiness
	b.counts[readiness]++
	b.root = insert(b.root, learnerID, readiness, r.rng.Uint64())
	count := len(b.byID)
	r.mu.Unlock()

	metrics.UpdateReadinessLearners(key, count)
	return nil
}

// Rank implements ReadinessStore.Rank.
func (r *ReadinessIndex) Rank(_ context.Context, role, learnerID string) (types.ReadinessEntry, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.boards[normalize.Canonical(role)]
	if !ok {
		return types.ReadinessEntry{}, ErrNotFound
	}
	readiness, ok := b.byID[learnerID]
	if !ok {
		return types.ReadinessEntry{}, ErrNotFound
	}
	return types.ReadinessEntry{
		Rank:      b.denseRank(readiness),
		LearnerID: learnerID,
		Readiness: readiness,
	}, nil
}

// TopN implements ReadinessStore.TopN. An unknown role yields an empty list.
func (r *ReadinessIndex) TopN(_ context.Context, role string, n int) ([]types.ReadinessEntry, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	if n < 1 {
		metrics.RecordErrorByComponent("repository", "invalid_limit")
		return nil, ErrInvalidLimit
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.boards[normalize.Canonical(role)]
	if !ok {
		return []types.ReadinessEntry{}, nil
	}

	nodes := make([]*node, 0, min(n, len(b.byID)))
	collectTopN(b.root, n, &nodes)

	out := make([]types.ReadinessEntry, len(nodes))
	rank := 0
	for i, nd := range nodes {
		if i == 0 || nd.readiness != nodes[i-1].readiness {
			rank++
		}
		out[i] = types.ReadinessEntry{Rank: rank, LearnerID: nd.id, Readiness: nd.readiness}
	}
	return out, nil
}

// Count implements ReadinessStore.Count.
func (r *ReadinessIndex) Count(_ context.Context, role string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if b, ok := r.boards[normalize.Canonical(role)]; ok {
		return len(b.byID)
	}
	return 0
}

// Roles implements ReadinessStore.Roles, sorted by name.
func (r *ReadinessIndex) Roles(_ context.Context) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.boards))
	for _, b := range r.boards {
		out = append(out, b.name)
	}
	sort.Strings(out)
	return out
}
