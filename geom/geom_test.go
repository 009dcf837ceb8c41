package geom

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func TestSegmentIntersection(t *testing.T) {
	tests := []struct {
		name           string
		a0, a1, b0, b1 r2.Vec
		wantHit        bool
		want           r2.Vec
	}{
		{
			name: "cross at origin",
			a0:   r2.Vec{X: -1}, a1: r2.Vec{X: 1},
			b0: r2.Vec{Y: -1}, b1: r2.Vec{Y: 1},
			wantHit: true,
		},
		{
			name: "touching endpoint",
			a0:   r2.Vec{}, a1: r2.Vec{X: 1},
			b0: r2.Vec{X: 1}, b1: r2.Vec{X: 1, Y: 1},
			wantHit: true, want: r2.Vec{X: 1},
		},
		{
			name: "parallel",
			a0:   r2.Vec{}, a1: r2.Vec{X: 1},
			b0: r2.Vec{Y: 1}, b1: r2.Vec{X: 1, Y: 1},
		},
		{
			name: "collinear overlap",
			a0:   r2.Vec{}, a1: r2.Vec{X: 2},
			b0: r2.Vec{X: 1}, b1: r2.Vec{X: 3},
		},
		{
			name: "lines cross outside segments",
			a0:   r2.Vec{}, a1: r2.Vec{X: 1},
			b0: r2.Vec{X: 2, Y: -1}, b1: r2.Vec{X: 2, Y: 1},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p, ok := SegmentIntersection(tc.a0, tc.a1, tc.b0, tc.b1)
			if ok != tc.wantHit {
				t.Fatalf("hit = %v, want %v", ok, tc.wantHit)
			}
			if ok && DistSq(p, tc.want) > 1e-12 {
				t.Errorf("point = %v, want %v", p, tc.want)
			}
		})
	}
}

func TestNormalizeOrZero(t *testing.T) {
	if got := NormalizeOrZero(r2.Vec{}); !IsZero(got) {
		t.Errorf("NormalizeOrZero(0) = %v, want zero", got)
	}

	got := NormalizeOrZero(r2.Vec{X: 3, Y: 4})
	if math.Abs(got.X-0.6) > 1e-12 || math.Abs(got.Y-0.8) > 1e-12 {
		t.Errorf("NormalizeOrZero(3,4) = %v, want (0.6, 0.8)", got)
	}
}

func TestPerp(t *testing.T) {
	// A rightward floor edge has an upward normal.
	if got := Perp(r2.Vec{X: 1}); got != (r2.Vec{Y: 1}) {
		t.Errorf("Perp(+x) = %v, want +y", got)
	}
}

func TestClosestOnSegment(t *testing.T) {
	a, b := r2.Vec{}, r2.Vec{X: 10}
	tests := []struct {
		p, want r2.Vec
	}{
		{r2.Vec{X: 5, Y: 3}, r2.Vec{X: 5}},
		{r2.Vec{X: -4, Y: 1}, a},
		{r2.Vec{X: 14, Y: -1}, b},
	}
	for _, tc := range tests {
		if got := ClosestOnSegment(tc.p, a, b); got != tc.want {
			t.Errorf("ClosestOnSegment(%v) = %v, want %v", tc.p, got, tc.want)
		}
	}
}
