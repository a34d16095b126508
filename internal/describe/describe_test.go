package describe_test

import (
	"errors"
	"testing"

	"typelayout/internal/describe"
	"typelayout/internal/layout"
	"typelayout/internal/types"
)

func setup(t *testing.T) *types.Registry {
	t.Helper()
	reg := types.NewRegistry()
	defs := []types.Type{
		types.Atomic("char", 1, 1),
		types.Atomic("int", 4, 4),
		types.Atomic("double", 8, 8),
		types.Struct("S1", []string{"char", "int", "char"}),
		types.Union("U", []string{"char", "int", "double"}, types.Layout{Size: 8, Align: 8}),
		types.Union("V", []string{"char", "int"}, types.Layout{Size: 4, Align: 4}),
	}
	for _, d := range defs {
		if err := reg.Define(d); err != nil {
			t.Fatalf("define %s: %v", d.Name, err)
		}
	}
	return reg
}

func TestDescribeAtomic(t *testing.T) {
	rep, err := describe.Describe(setup(t), "int")
	if err != nil {
		t.Fatal(err)
	}
	if rep.Kind != types.KindAtomic || rep.Layout == nil || rep.Layout.Size != 4 || rep.Layout.Wasted != 0 {
		t.Fatalf("unexpected report %+v", rep)
	}
	if len(rep.Strategies) != 0 {
		t.Fatal("atomics carry no strategies")
	}
}

func TestDescribeUnion(t *testing.T) {
	reg := setup(t)
	rep, err := describe.Describe(reg, "U")
	if err != nil {
		t.Fatal(err)
	}
	if rep.Layout.Size != 8 || rep.Layout.Align != 8 || rep.Layout.Wasted != 0 {
		t.Fatalf("expected 8/8/0, got %+v", rep.Layout)
	}

	if err := reg.Define(types.Union("W", []string{"char"}, types.Layout{Size: 4, Align: 4})); err != nil {
		t.Fatal(err)
	}
	rep, err = describe.Describe(reg, "W")
	if err != nil {
		t.Fatal(err)
	}
	if rep.Layout.Wasted != 3 {
		t.Fatalf("expected 3 wasted bytes, got %d", rep.Layout.Wasted)
	}
}

func TestDescribeStructOrder(t *testing.T) {
	rep, err := describe.Describe(setup(t), "S1")
	if err != nil {
		t.Fatal(err)
	}
	if rep.Layout != nil {
		t.Fatal("structs carry strategies, not a single layout")
	}
	want := []struct {
		s                   layout.Strategy
		size, align, wasted uint64
	}{
		{layout.NoPacking, 12, 4, 6},
		{layout.Packed, 6, 4, 0},
		{layout.Optimal, 8, 4, 2},
	}
	if len(rep.Strategies) != len(want) {
		t.Fatalf("expected %d strategies, got %d", len(want), len(rep.Strategies))
	}
	for i, w := range want {
		got := rep.Strategies[i]
		if got.Strategy != w.s || got.Result.Size != w.size || got.Result.Align != w.align || got.Result.Wasted != w.wasted {
			t.Fatalf("strategy %d: got %s %+v", i, got.Strategy, got.Result)
		}
	}
	if r, ok := rep.Result(layout.Packed); !ok || r.Size != 6 {
		t.Fatalf("Result(packed) = %+v, %v", r, ok)
	}
}

func TestDescribeUndefined(t *testing.T) {
	reg := setup(t)
	_, err := describe.Describe(reg, "nope")
	var undef *types.UndefinedTypeError
	if !errors.As(err, &undef) {
		t.Fatalf("expected UndefinedTypeError, got %v", err)
	}

	if err := reg.Define(types.Struct("Bad", []string{"char", "missing"})); err != nil {
		t.Fatal(err)
	}
	if _, err := describe.Describe(reg, "Bad"); !errors.As(err, &undef) || undef.Name != "missing" {
		t.Fatalf("expected missing component error, got %v", err)
	}
}

func TestDescribeDoesNotMutate(t *testing.T) {
	reg := setup(t)
	before := reg.Entries()
	if _, err := describe.Describe(reg, "S1"); err != nil {
		t.Fatal(err)
	}
	after := reg.Entries()
	if len(before) != len(after) {
		t.Fatalf("entry count changed: %d -> %d", len(before), len(after))
	}
	for i := range before {
		if before[i].Name != after[i].Name || before[i].Kind != after[i].Kind {
			t.Fatalf("entry %d changed", i)
		}
	}
}
