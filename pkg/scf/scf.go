// Package scf implements a scalable cuckoo filter: an approximate-membership
// set with bounded false positives, no false negatives, deletion, and
// unbounded growth.
//
// A ScalableCuckooFilter composes a sequence of fixed-size cuckoo filters.
// Inserts always target the newest; when it overflows, a sub-filter with
// geometrically larger capacity is appended and the insert retried. Every
// sub-filter shares the fingerprint width derived from the initial
// false-positive probability; the tightening ratio is validated and kept but
// changes no parameter of an appended sub-filter, so per-filter rates do not
// shrink and the aggregate rate rises with the number of sub-filters.
//
// Filters are single-writer, many-reader: no operation here locks, and
// behaviour under concurrent mutation is undefined.
package scf

import (
	"errors"

	"scalablecuckoo/internal/filter"
	"scalablecuckoo/internal/hashing"
	"scalablecuckoo/pkg/value"
)

// Defaults applied by New.
const (
	DefaultScaleFactor    = 4
	DefaultTightening     = 0.9
	DefaultSlotsPerBucket = filter.DefaultSlotsPerBucket
)

// Config parameterizes a filter. The zero value of any field selects its
// default; InitialCapacity and InitialFPP are required.
type Config struct {
	InitialCapacity uint64  // target item count of the first sub-filter
	InitialFPP      float64 // false-positive budget of the first sub-filter
	ScaleFactor     uint64  // capacity multiplier per appended sub-filter (>= 2)
	Tightening      float64 // tightening ratio, in (0, 1); validated and stored, no sub-filter parameter depends on it
	SlotsPerBucket  int     // bucket width, in [1, 8]

	// Seed fixes the eviction PRNG for reproducible behaviour; sub-filter
	// i uses Seed+i. Zero seeds every sub-filter from the OS entropy
	// source instead.
	Seed uint64
}

// ScalableCuckooFilter is a growable approximate-membership set. Create one
// with New or NewWithConfig; the zero value is not usable.
type ScalableCuckooFilter struct {
	filters []*filter.CuckooFilter // oldest first; the last is the insert target

	initialCapacity uint64
	initialFPP      float64
	scaleFactor     uint64
	tightening      float64
	slotsPerBucket  int
	fingerprintBits int // shared by every sub-filter; fixed at construction
	maxKicks        int
	seed            uint64
}

// New creates an empty filter with default scale factor, tightening ratio,
// and bucket width.
func New(initialCapacity uint64, initialFPP float64) (*ScalableCuckooFilter, error) {
	return NewWithConfig(Config{InitialCapacity: initialCapacity, InitialFPP: initialFPP})
}

// NewWithConfig creates an empty filter from an explicit configuration.
func NewWithConfig(cfg Config) (*ScalableCuckooFilter, error) {
	if cfg.ScaleFactor == 0 {
		cfg.ScaleFactor = DefaultScaleFactor
	}
	if cfg.Tightening == 0 {
		cfg.Tightening = DefaultTightening
	}
	if cfg.SlotsPerBucket == 0 {
		cfg.SlotsPerBucket = DefaultSlotsPerBucket
	}
	if cfg.InitialCapacity == 0 {
		return nil, invalidConfig("initial capacity must be greater than 0")
	}
	if cfg.InitialFPP <= 0 || cfg.InitialFPP >= 1 {
		return nil, invalidConfig("initial false-positive probability must be in (0, 1), got %v", cfg.InitialFPP)
	}
	if cfg.ScaleFactor < 2 {
		return nil, invalidConfig("scale factor must be at least 2, got %d", cfg.ScaleFactor)
	}
	if cfg.Tightening <= 0 || cfg.Tightening >= 1 {
		return nil, invalidConfig("tightening ratio must be in (0, 1), got %v", cfg.Tightening)
	}
	if cfg.SlotsPerBucket < 1 || cfg.SlotsPerBucket > 8 {
		return nil, invalidConfig("slots per bucket must be in [1, 8], got %d", cfg.SlotsPerBucket)
	}

	bits := filter.FingerprintBits(cfg.InitialFPP, cfg.SlotsPerBucket)
	s := &ScalableCuckooFilter{
		initialCapacity: cfg.InitialCapacity,
		initialFPP:      cfg.InitialFPP,
		scaleFactor:     cfg.ScaleFactor,
		tightening:      cfg.Tightening,
		slotsPerBucket:  cfg.SlotsPerBucket,
		fingerprintBits: bits,
		maxKicks:        filter.MaxKicksFor(bits, cfg.SlotsPerBucket),
		seed:            cfg.Seed,
	}
	s.filters = append(s.filters, s.newSubFilter(cfg.InitialCapacity))
	return s, nil
}

func (s *ScalableCuckooFilter) newSubFilter(capacity uint64) *filter.CuckooFilter {
	seed := filter.RandomSeed()
	if s.seed != 0 {
		seed = s.seed + uint64(len(s.filters))
	}
	return filter.NewCuckooFilter(capacity, s.fingerprintBits, s.slotsPerBucket, s.maxKicks, seed)
}

func (s *ScalableCuckooFilter) hash(v value.Value) (uint64, error) {
	canonical, err := value.Canonical(v)
	if err != nil {
		return 0, err
	}
	return hashing.Sum64(canonical), nil
}

// Insert adds an item. It either succeeds on the current tail sub-filter or
// appends a larger one and succeeds there; a rejection by a fresh sub-filter
// is surfaced as ErrGrowthInsertFailed. The filter is unchanged on error.
func (s *ScalableCuckooFilter) Insert(v value.Value) error {
	h, err := s.hash(v)
	if err != nil {
		return &FilterError{Op: "insert", Message: "cannot canonicalize item", Cause: err}
	}
	tail := s.filters[len(s.filters)-1]
	err = tail.Insert(h)
	if err == nil {
		return nil
	}
	if !errors.Is(err, filter.ErrFilterFull) {
		return &FilterError{Op: "insert", Message: "sub-filter rejected item", Cause: err}
	}

	grown := s.newSubFilter(tail.Capacity() * s.scaleFactor)
	s.filters = append(s.filters, grown)
	if err := grown.Insert(h); err != nil {
		s.filters = s.filters[:len(s.filters)-1]
		return &FilterError{Op: "insert", Message: "fresh sub-filter rejected item", Cause: ErrGrowthInsertFailed}
	}
	return nil
}

// MightContain reports whether the item may have been inserted. A false
// result is definitive; a true result is wrong with probability bounded by
// the aggregate false-positive rate. Sub-filters are probed newest first.
func (s *ScalableCuckooFilter) MightContain(v value.Value) bool {
	h, err := s.hash(v)
	if err != nil {
		return false
	}
	for i := len(s.filters) - 1; i >= 0; i-- {
		if s.filters[i].Contains(h) {
			return true
		}
	}
	return false
}

// Remove deletes the item from the newest sub-filter that holds its
// fingerprint and reports whether one did. Removing an item that was never
// inserted can evict a colliding fingerprint belonging to another item;
// only remove what was inserted.
func (s *ScalableCuckooFilter) Remove(v value.Value) bool {
	h, err := s.hash(v)
	if err != nil {
		return false
	}
	for i := len(s.filters) - 1; i >= 0; i-- {
		if s.filters[i].Delete(h) {
			return true
		}
	}
	return false
}

// IsEmpty reports whether no sub-filter holds any fingerprint.
func (s *ScalableCuckooFilter) IsEmpty() bool {
	for _, f := range s.filters {
		if f.Size() != 0 {
			return false
		}
	}
	return true
}

// Len returns the total number of stored fingerprints. Duplicate inserts
// are counted per copy.
func (s *ScalableCuckooFilter) Len() uint64 {
	var n uint64
	for _, f := range s.filters {
		n += f.Size()
	}
	return n
}

// FilterCount returns the number of sub-filters accumulated so far.
func (s *ScalableCuckooFilter) FilterCount() int { return len(s.filters) }

// FalsePositiveProbability returns the configured initial budget. It is not
// the aggregate rate, which rises as sub-filters are appended.
func (s *ScalableCuckooFilter) FalsePositiveProbability() float64 { return s.initialFPP }

// Capacity returns the summed target capacity of all sub-filters.
func (s *ScalableCuckooFilter) Capacity() uint64 {
	var n uint64
	for _, f := range s.filters {
		n += f.Capacity()
	}
	return n
}

// DebugValue exposes the canonical byte encoding the filter hashes for an
// item, for test assertions against the canonicalizer contract.
func (s *ScalableCuckooFilter) DebugValue(v value.Value) ([]byte, error) {
	return value.Canonical(v)
}
