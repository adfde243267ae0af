package aspect

import (
	"math"
	"testing"
)

func TestFitCover(t *testing.T) {
	tests := []struct {
		name   string
		iw, ih float64
		want   Placement
	}{
		{"landscape 2:1", 4000, 2000, Placement{DrawW: 1080, DrawH: 540, OffsetX: 0, OffsetY: 405}},
		{"square", 500, 500, Placement{DrawW: 1350, DrawH: 1350, OffsetX: -135, OffsetY: 0}},
		{"portrait 4:5", 800, 1000, Placement{DrawW: 1080, DrawH: 1350, OffsetX: 0, OffsetY: 0}},
		{"tall 1:2", 1000, 2000, Placement{DrawW: 675, DrawH: 1350, OffsetX: 202.5, OffsetY: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FitCover(tt.iw, tt.ih, 1080, 1350)
			if math.Abs(got.DrawW-tt.want.DrawW) > 1e-9 || math.Abs(got.DrawH-tt.want.DrawH) > 1e-9 ||
				math.Abs(got.OffsetX-tt.want.OffsetX) > 1e-9 || math.Abs(got.OffsetY-tt.want.OffsetY) > 1e-9 {
				t.Fatalf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestFitCoverPreservesAspectAndCentres(t *testing.T) {
	for _, size := range [][2]float64{{1, 1}, {3, 2}, {2, 3}, {4000, 10}, {10, 4000}, {1920, 1080}} {
		p := FitCover(size[0], size[1], 2160, 2700)
		if math.Abs(p.DrawW/p.DrawH-size[0]/size[1]) > 1e-9 {
			t.Fatalf("%v: aspect not preserved: %+v", size, p)
		}
		if math.Abs(p.OffsetX*2+p.DrawW-2160) > 1e-9 || math.Abs(p.OffsetY*2+p.DrawH-2700) > 1e-9 {
			t.Fatalf("%v: not centred: %+v", size, p)
		}
		if p.DrawW != 2160 && p.DrawH != 2700 {
			t.Fatalf("%v: neither dimension pinned to target: %+v", size, p)
		}
	}
}

func TestFitCoverScalesWithTarget(t *testing.T) {
	preview := FitCover(3000, 2000, 1080, 1350)
	export := FitCover(3000, 2000, 2160, 2700)
	if export.DrawW != preview.DrawW*2 || export.DrawH != preview.DrawH*2 ||
		export.OffsetX != preview.OffsetX*2 || export.OffsetY != preview.OffsetY*2 {
		t.Fatalf("placement not proportional: preview %+v export %+v", preview, export)
	}
}

func TestFitCoverDegenerate(t *testing.T) {
	p := FitCover(0, 10, 100, 200)
	if p.DrawW != 0 || p.DrawH != 0 || p.OffsetX != 50 || p.OffsetY != 100 {
		t.Fatalf("unexpected placement %+v", p)
	}
}
