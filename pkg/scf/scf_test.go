package scf_test

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/google/uuid"

	"scalablecuckoo/pkg/scf"
	"scalablecuckoo/pkg/value"
)

// TestCreateAndInsert is the basic lifecycle scenario.
func TestCreateAndInsert(t *testing.T) {
	filter, err := scf.New(1000, 0.001)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if !filter.IsEmpty() {
		t.Errorf("fresh filter should be empty")
	}
	if filter.MightContain(value.Text("hello")) {
		t.Errorf("fresh filter should not contain anything")
	}
	if got := filter.FalsePositiveProbability(); got != 0.001 {
		t.Errorf("FalsePositiveProbability = %v, want 0.001", got)
	}

	if err := filter.Insert(value.Text("hello")); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if filter.IsEmpty() {
		t.Errorf("filter should not be empty after insert")
	}
	if !filter.MightContain(value.Text("hello")) {
		t.Errorf("filter should contain inserted item")
	}
	if filter.MightContain(value.Text("world")) {
		t.Errorf("filter should not contain a different item (fpp 0.001)")
	}
	if got := filter.Len(); got != 1 {
		t.Errorf("Len = %d, want 1", got)
	}
}

// TestInsertedTypes inserts one value of every variant and checks
// membership, mirroring the binding-level type matrix.
func TestInsertedTypes(t *testing.T) {
	items := []struct {
		name string
		v    value.Value
	}{
		{"str", value.Text("hello")},
		{"bytes", value.Bytes([]byte("hello world"))},
		{"int", value.Int(123)},
		{"negative_int", value.Int(-123)},
		{"uint", value.Uint(1 << 60)},
		{"float", value.Float(1.23)},
		{"bool", value.Bool(true)},
		{"list", value.MustFrom([]any{1, 2, 3})},
		{"mixed_list", value.MustFrom([]any{1, "a"})},
		{"float_pair", value.Seq(value.Float(1.23), value.Float(4.25))},
		{"nested", value.MustFrom([]any{1, []any{2, []any{3}}})},
	}

	for _, tc := range items {
		t.Run(tc.name, func(t *testing.T) {
			filter, err := scf.New(1000, 0.001)
			if err != nil {
				t.Fatalf("New failed: %v", err)
			}
			if filter.MightContain(tc.v) {
				t.Errorf("fresh filter should not contain item")
			}
			if err := filter.Insert(tc.v); err != nil {
				t.Fatalf("insert failed: %v", err)
			}
			if !filter.MightContain(tc.v) {
				t.Errorf("filter should contain inserted item")
			}
		})
	}
}

// TestSequenceEquivalence checks that any ordered sequences with equal
// elements are the same item.
func TestSequenceEquivalence(t *testing.T) {
	filter, err := scf.New(1000, 0.001)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if err := filter.Insert(value.MustFrom([]any{1, 2, 3})); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if !filter.MightContain(value.Seq(value.Int(1), value.Int(2), value.Int(3))) {
		t.Errorf("tuple form should match inserted list")
	}
	if !filter.MightContain(value.MustFrom([]any{1, 2, 3})) {
		t.Errorf("list form should match inserted list")
	}

	// A generated range and a literal slice are the same sequence.
	rangeVals := make([]value.Value, 0, 5)
	for i := 0; i < 5; i++ {
		rangeVals = append(rangeVals, value.Int(int64(i)))
	}
	if err := filter.Insert(value.Seq(rangeVals...)); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if !filter.MightContain(value.MustFrom([]any{0, 1, 2, 3, 4})) {
		t.Errorf("literal slice should match inserted range")
	}
}

// TestTextBytesIdentity pins the canonicalizer decision: a Text and a Bytes
// with the same content are the same item.
func TestTextBytesIdentity(t *testing.T) {
	filter, err := scf.New(1000, 0.001)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := filter.Insert(value.Text("hello")); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if !filter.MightContain(value.Bytes([]byte("hello"))) {
		t.Errorf("bytes form should match inserted text")
	}
}

// TestRemove checks delete semantics.
func TestRemove(t *testing.T) {
	filter, err := scf.New(1000, 0.001)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if filter.Remove(value.Text("hello")) {
		t.Errorf("remove on an empty filter should report false")
	}

	if err := filter.Insert(value.Text("hello")); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if !filter.MightContain(value.Text("hello")) {
		t.Errorf("filter should contain item before remove")
	}
	if !filter.Remove(value.Text("hello")) {
		t.Errorf("remove should report true for an inserted item")
	}
	if filter.MightContain(value.Text("hello")) {
		t.Errorf("filter should not contain item after remove (nothing else inserted)")
	}
	if !filter.IsEmpty() {
		t.Errorf("filter should be empty after removing its only item")
	}
}

// TestNaN checks that NaN round-trips through the canonicalizer: the bit
// pattern is what gets hashed.
func TestNaN(t *testing.T) {
	filter, err := scf.New(1000, 0.001)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	nan := math.NaN()
	if err := filter.Insert(value.Float(nan)); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if !filter.MightContain(value.Float(nan)) {
		t.Errorf("filter should contain NaN after inserting NaN")
	}
}

// TestScaling pushes 100000 UUID hex strings through a filter created for
// 100 items and verifies growth, full membership, and the aggregate
// false-positive bound.
func TestScaling(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping scaling test in short mode")
	}

	filter, err := scf.NewWithConfig(scf.Config{
		InitialCapacity: 100,
		InitialFPP:      0.01,
		Seed:            1,
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	const numKeys = 100000
	keys := make([]string, numKeys)
	for i := range keys {
		keys[i] = uuid.NewString()
		if err := filter.Insert(value.Text(keys[i])); err != nil {
			t.Fatalf("insert %d failed: %v", i, err)
		}
	}

	if filter.FilterCount() <= 1 {
		t.Errorf("filter should have grown past one sub-filter, has %d", filter.FilterCount())
	}
	if got := filter.Len(); got != numKeys {
		t.Errorf("Len = %d, want %d", got, numKeys)
	}
	t.Logf("grew to %d sub-filters, capacity %d", filter.FilterCount(), filter.Capacity())

	for i, key := range keys {
		if !filter.MightContain(value.Text(key)) {
			t.Fatalf("key %d missing after insert", i)
		}
	}

	// Aggregate bound: fpp/(1-tightening) = 0.01/0.1 = 0.1. Allow slack
	// for sampling noise; the observed rate sits far below the bound.
	falsePositives := 0
	probes := 10000
	for i := 0; i < probes; i++ {
		if filter.MightContain(value.Text(uuid.NewString())) {
			falsePositives++
		}
	}
	rate := float64(falsePositives) / float64(probes)
	t.Logf("false positive rate: %.5f", rate)
	if rate > 0.1*2 {
		t.Errorf("false positive rate %.5f exceeds aggregate bound with slack", rate)
	}
}

// TestDebugValue exposes the canonicalizer through the filter.
func TestDebugValue(t *testing.T) {
	filter, err := scf.New(100, 0.01)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	got, err := filter.DebugValue(value.Text("hello"))
	if err != nil {
		t.Fatalf("DebugValue failed: %v", err)
	}
	if !bytes.Equal(got, []byte("hello")) {
		t.Errorf("DebugValue(Text) = %x, want %x", got, []byte("hello"))
	}

	got, err = filter.DebugValue(value.Int(1))
	if err != nil {
		t.Fatalf("DebugValue failed: %v", err)
	}
	if !bytes.Equal(got, []byte{1, 0, 0, 0, 0, 0, 0, 0}) {
		t.Errorf("DebugValue(Int(1)) = %x", got)
	}
}

// TestInvalidInputs covers the unsupported-item surface.
func TestInvalidInputs(t *testing.T) {
	filter, err := scf.New(100, 0.01)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if err := filter.Insert(value.Value{}); !errors.Is(err, value.ErrUnsupportedItem) {
		t.Errorf("Insert(zero value) error = %v, want ErrUnsupportedItem", err)
	}
	if !filter.IsEmpty() {
		t.Errorf("failed insert must not change state")
	}
	if filter.MightContain(value.Value{}) {
		t.Errorf("MightContain(zero value) should be false")
	}
	if filter.Remove(value.Value{}) {
		t.Errorf("Remove(zero value) should be false")
	}
}

// TestConfigValidation covers rejected configurations.
func TestConfigValidation(t *testing.T) {
	cases := []struct {
		name string
		cfg  scf.Config
	}{
		{"zero_capacity", scf.Config{InitialCapacity: 0, InitialFPP: 0.01}},
		{"fpp_too_high", scf.Config{InitialCapacity: 100, InitialFPP: 1.5}},
		{"fpp_negative", scf.Config{InitialCapacity: 100, InitialFPP: -0.1}},
		{"scale_too_small", scf.Config{InitialCapacity: 100, InitialFPP: 0.01, ScaleFactor: 1}},
		{"tightening_too_big", scf.Config{InitialCapacity: 100, InitialFPP: 0.01, Tightening: 1.5}},
		{"too_many_slots", scf.Config{InitialCapacity: 100, InitialFPP: 0.01, SlotsPerBucket: 9}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := scf.NewWithConfig(tc.cfg); !errors.Is(err, scf.ErrConfigInvalid) {
				t.Errorf("expected ErrConfigInvalid, got %v", err)
			}
		})
	}
}

// TestGrowthKeepsEverything inserts far past the initial capacity and checks
// every item to verify that growth never loses earlier items.
func TestGrowthKeepsEverything(t *testing.T) {
	filter, err := scf.NewWithConfig(scf.Config{
		InitialCapacity: 50,
		InitialFPP:      0.01,
		ScaleFactor:     2,
		Seed:            7,
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	const n = 5000
	for i := 0; i < n; i++ {
		if err := filter.Insert(value.Text(fmt.Sprintf("grow-%d", i))); err != nil {
			t.Fatalf("insert %d failed: %v", i, err)
		}
	}
	for i := 0; i < n; i++ {
		if !filter.MightContain(value.Text(fmt.Sprintf("grow-%d", i))) {
			t.Fatalf("item %d lost across growth", i)
		}
	}
	if filter.FilterCount() <= 1 {
		t.Errorf("expected growth, still at %d sub-filter(s)", filter.FilterCount())
	}
}
