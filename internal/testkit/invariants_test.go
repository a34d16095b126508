package testkit

import (
	"strings"
	"testing"

	"typelayout/internal/layout"
)

func TestCheckLayoutInvariants(t *testing.T) {
	good := layout.Result{
		Size: 12, Align: 4, Wasted: 6, TailPad: 3,
		Fields: []layout.Placement{
			{Name: "char", Offset: 0, Size: 1, Align: 1},
			{Name: "int", Offset: 4, Size: 4, Align: 4, PadBefore: 3},
			{Name: "char", Offset: 8, Size: 1, Align: 1},
		},
	}
	if err := CheckLayoutInvariants(layout.NoPacking, good); err != nil {
		t.Fatalf("valid result rejected: %v", err)
	}

	tests := []struct {
		name     string
		strategy layout.Strategy
		mutate   func(*layout.Result)
		want     string
	}{
		{"overlap", layout.NoPacking, func(r *layout.Result) { r.Fields[2].Offset = 6 }, "overlaps"},
		{"size", layout.NoPacking, func(r *layout.Result) { r.Size = 16 }, "tail"},
		{"wasted", layout.NoPacking, func(r *layout.Result) { r.Wasted = 3 }, "wasted"},
		{"packed padding", layout.Packed, func(r *layout.Result) {}, "packed"},
		{"misaligned", layout.Optimal, func(r *layout.Result) {
			r.Fields[1].Offset, r.Fields[1].PadBefore = 2, 1
			r.Fields[2].Offset, r.Fields[2].PadBefore = 6, 0
			r.TailPad, r.Wasted = 5, 6
		}, "not aligned"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := good
			r.Fields = append([]layout.Placement(nil), good.Fields...)
			tt.mutate(&r)
			err := CheckLayoutInvariants(tt.strategy, r)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}
