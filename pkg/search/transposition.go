package search

import (
	"context"
	"math/bits"

	"github.com/hardfiskur/hardfiskur/pkg/board"
	"github.com/hardfiskur/hardfiskur/pkg/eval"
	"github.com/seekerror/logw"
)

// Bound indicates how a stored score relates to the true minimax value of the position it was
// computed for, per the usual alpha-beta convention.
type Bound uint8

const (
	ExactBound Bound = iota
	LowerBound // value was a beta cutoff: the true value is >= the stored score.
	UpperBound // value failed low: the true value is <= the stored score.
)

func (b Bound) String() string {
	switch b {
	case ExactBound:
		return "exact"
	case LowerBound:
		return "lower"
	case UpperBound:
		return "upper"
	default:
		return "?"
	}
}

// TranspositionTable caches search results keyed by position hash, so that transpositions --
// different move orders reaching the same position -- are evaluated once, and so the prior
// best move can seed move ordering independent of whether its bound is exact.
type TranspositionTable interface {
	// Read probes the table for the given hash. ok is false on a miss.
	Read(hash board.ZobristHash) (bound Bound, depth int, score eval.Score, move board.Move, ok bool)
	// Write stores a result for the given hash, subject to the table's replacement policy.
	// ply is the current search ply, used to re-base mate scores for storage.
	Write(hash board.ZobristHash, bound Bound, ply, depth int, score eval.Score, move board.Move) bool

	// NewGeneration marks the start of a new search: entries from prior generations are
	// preferentially replaced over same-generation entries, without clearing the table.
	NewGeneration()
	// Clear resets the table to empty.
	Clear()
	// Size returns the size of the table in bytes.
	Size() uint64
	// Used returns the fraction of slots holding a current-generation entry, in [0;1].
	// Reported to the engine operator as the UCI "hashfull" permille statistic.
	Used() float64
}

// table is a fixed-size transposition table organized into buckets of bucketSize slots. Each
// slot is written as two 64-bit lanes, a key lane and a data lane, paired by XOR: a writer
// stores (hash^data, data); a reader recomputes the hash as (storedKey^storedData) and compares
// it against the probe hash. A read torn by a concurrent write -- observed half old, half new --
// recomputes to a hash that (overwhelmingly likely) matches neither the old nor the new entry,
// and is safely treated as a miss rather than returned as corrupt data. This avoids a lock on
// the hot path.
//
// Within a bucket, a write prefers to occupy, in order: (1) the slot whose key already matches
// (subject to the replacement rule below), so a position never holds two slots, (2) an empty
// slot, (3) otherwise the slot that is oldest and shallowest relative to the rest of the bucket.
type table struct {
	buckets []bucket
	mask    uint64
	gen     uint8
}

const bucketSize = 3

type bucket [bucketSize]slot

type slot struct {
	key  board.ZobristHash
	data uint64
}

const (
	genWeight = 4
	// scoreOffset re-bases the signed eval.Score into the unsigned 16-bit field of the
	// packed data word.
	scoreOffset = 1 << 15
)

func NewTranspositionTable(ctx context.Context, size uint64) TranspositionTable {
	entries := size / 16
	if entries < 2*bucketSize {
		entries = 2 * bucketSize
	}
	buckets := entries / bucketSize
	n := uint64(1) << uint(63-bits.LeadingZeros64(buckets))

	logw.Infof(ctx, "Allocating %vMB TT with %v buckets of %v entries", size>>20, n, bucketSize)

	return &table{
		buckets: make([]bucket, n),
		mask:    n - 1,
	}
}

func (t *table) Size() uint64 {
	return uint64(len(t.buckets)) * bucketSize * 16
}

func (t *table) NewGeneration() {
	t.gen++
}

func (t *table) Clear() {
	t.buckets = make([]bucket, len(t.buckets))
	t.gen = 0
}

func (t *table) Used() float64 {
	sample := len(t.buckets)
	if sample > 4096/bucketSize {
		sample = 4096 / bucketSize
	}
	used, total := 0, 0
	for i := 0; i < sample; i++ {
		for _, s := range t.buckets[i] {
			total++
			if s.key == 0 && s.data == 0 {
				continue // never written
			}
			if uint8(s.data>>26) == t.gen {
				used++
			}
		}
	}
	return float64(used) / float64(total)
}

func (t *table) index(hash board.ZobristHash) uint64 {
	return uint64(hash) & t.mask
}

func (t *table) Read(hash board.ZobristHash) (Bound, int, eval.Score, board.Move, bool) {
	bkt := &t.buckets[t.index(hash)]
	for i := range bkt {
		s := bkt[i]
		if s.key == 0 && s.data == 0 {
			continue
		}
		if s.key^board.ZobristHash(s.data) == hash {
			bound, depth, score, move := unpack(s.data)
			return bound, depth, score, move, true
		}
	}
	return ExactBound, 0, 0, board.Move{}, false
}

func (t *table) Write(hash board.ZobristHash, bound Bound, ply, depth int, score eval.Score, move board.Move) bool {
	bkt := &t.buckets[t.index(hash)]

	// (1) Matching key: replace only if the new entry is worth at least as much as what's there.
	for i := range bkt {
		s := bkt[i]
		if s.key == 0 && s.data == 0 {
			continue
		}
		if s.key^board.ZobristHash(s.data) != hash {
			continue
		}
		_, existingDepth, _, _ := unpack(s.data)
		if bound != ExactBound && depth < existingDepth-2 {
			return false // keep the deeper existing entry for this position
		}
		t.store(bkt, i, hash, bound, ply, depth, score, move)
		return true
	}

	// (2) Empty slot: always take it.
	for i := range bkt {
		if bkt[i].key == 0 && bkt[i].data == 0 {
			t.store(bkt, i, hash, bound, ply, depth, score, move)
			return true
		}
	}

	// (3) No room and no match: evict the slot that is most stale relative to the rest of the
	// bucket, provided the replacement policy agrees it's worth displacing.
	worst := 0
	worstStaleness := -(1 << 62)
	for i := range bkt {
		existingGen := uint8(bkt[i].data >> 26)
		existingDepth := int(uint8(bkt[i].data >> 18))
		staleness := (int(t.gen)-int(existingGen))*genWeight - existingDepth
		if staleness > worstStaleness {
			worstStaleness = staleness
			worst = i
		}
	}
	if !t.shouldReplace(bkt[worst].data, depth) {
		return false
	}
	t.store(bkt, worst, hash, bound, ply, depth, score, move)
	return true
}

func (t *table) store(bkt *bucket, i int, hash board.ZobristHash, bound Bound, ply, depth int, score eval.Score, move board.Move) {
	data := pack(t.gen, bound, depth, score.ToTT(ply), move)
	bkt[i] = slot{key: hash ^ board.ZobristHash(data), data: data}
}

// shouldReplace favors replacing stale generations and shallow searches: an occupant several
// generations old is evicted even if it was a deep search, while within the same generation
// only a deeper search displaces a shallower one.
func (t *table) shouldReplace(existing uint64, newDepth int) bool {
	if existing == 0 {
		return true // empty slot
	}
	existingGen := uint8(existing >> 26)
	existingDepth := int(uint8(existing >> 18))

	genDiff := int(t.gen) - int(existingGen)
	return genDiff*genWeight+(newDepth-existingDepth) > 0
}

func pack(gen uint8, bound Bound, depth int, score eval.Score, move board.Move) uint64 {
	d := uint64(depth)
	if d > 255 {
		d = 255
	}

	return uint64(uint16(int32(score)+scoreOffset)) |
		uint64(bound)<<16 |
		d<<18 |
		uint64(gen)<<26 |
		uint64(move.From)<<34 |
		uint64(move.To)<<40 |
		uint64(move.Promotion)<<46
}

func unpack(data uint64) (Bound, int, eval.Score, board.Move) {
	score := eval.Score(int32(uint16(data)) - scoreOffset)
	bound := Bound((data >> 16) & 0x3)
	depth := int((data >> 18) & 0xFF)

	from := board.Square((data >> 34) & 0x3F)
	to := board.Square((data >> 40) & 0x3F)
	promo := board.Piece((data >> 46) & 0x7)

	var move board.Move
	if from != 0 || to != 0 {
		move = board.Move{From: from, To: to, Promotion: promo}
	}
	return bound, depth, score, move
}

// NoTranspositionTable disables the table entirely: every probe misses and every write is a
// no-op. Used to run a search in isolation, e.g. for per-move PV breakdowns that must not
// pollute -- or be biased by -- the main search's table.
type NoTranspositionTable struct{}

func (NoTranspositionTable) Read(board.ZobristHash) (Bound, int, eval.Score, board.Move, bool) {
	return ExactBound, 0, 0, board.Move{}, false
}

func (NoTranspositionTable) Write(board.ZobristHash, Bound, int, int, eval.Score, board.Move) bool {
	return false
}

func (NoTranspositionTable) NewGeneration() {}
func (NoTranspositionTable) Clear()         {}
func (NoTranspositionTable) Size() uint64   { return 0 }
func (NoTranspositionTable) Used() float64  { return 0 }
