package transform

import (
	"math"
	"testing"
)

const eps = 1e-9

func near(a, b float64) bool { return math.Abs(a-b) < eps }

func TestApplyPointerDeltaZeroIsNoop(t *testing.T) {
	for rot := -180.0; rot <= 180; rot += 15 {
		for sc := MinScale; sc <= MaxScale; sc += 0.25 {
			in := PhotoTransform{TranslateX: 12.5, TranslateY: -40, Scale: sc, RotationDegrees: rot}
			got := ApplyPointerDelta(in, 0, 0, 1.7, 2.3)
			if got != in {
				t.Fatalf("rot=%v scale=%v: zero delta changed transform: %+v -> %+v", rot, sc, in, got)
			}
		}
	}
}

func TestApplyPointerDeltaAxisAligned(t *testing.T) {
	in := Identity()
	got := ApplyPointerDelta(in, 10, -4, 2, 3)
	if !near(got.TranslateX, 20) || !near(got.TranslateY, -12) {
		t.Fatalf("unexpected translation %+v", got)
	}
	if got.Scale != 1 || got.RotationDegrees != 0 {
		t.Fatalf("scale/rotation mutated: %+v", got)
	}
}

// A horizontal drag on a photo rotated by a quarter turn moves it along the
// photo's own vertical axis. The sign follows the rotation direction.
func TestApplyPointerDeltaRotationConsistency(t *testing.T) {
	const d = 7.25
	tests := []struct {
		rotation float64
		wantDY   float64
	}{
		{90, -4 * d},
		{-90, 4 * d},
	}
	for _, tt := range tests {
		rotated := PhotoTransform{Scale: 1, RotationDegrees: tt.rotation}
		for i := 0; i < 4; i++ {
			rotated = ApplyPointerDelta(rotated, d, 0, 1, 1)
		}
		plain := ApplyPointerDelta(Identity(), 0, tt.wantDY, 1, 1)
		if math.Abs(rotated.TranslateX-plain.TranslateX) > 1e-6 || math.Abs(rotated.TranslateY-plain.TranslateY) > 1e-6 {
			t.Fatalf("rotation %v: rotated %+v, plain %+v", tt.rotation, rotated, plain)
		}
	}
}

func TestApplyPointerDeltaDoesNotClamp(t *testing.T) {
	got := ApplyPointerDelta(Identity(), 5000, -9000, 1, 1)
	if got.TranslateX != 5000 || got.TranslateY != -9000 {
		t.Fatalf("drag was clamped: %+v", got)
	}
}

func TestResetIsIdentity(t *testing.T) {
	in := PhotoTransform{TranslateX: 300, TranslateY: -2, Scale: 2.4, RotationDegrees: -77}
	got := in.Reset()
	if got != (PhotoTransform{0, 0, 1, 0}) {
		t.Fatalf("reset gave %+v", got)
	}
	if !got.IsIdentity() {
		t.Fatalf("IsIdentity false after reset")
	}
}

func TestSettersClamp(t *testing.T) {
	tests := []struct {
		name  string
		field Field
		in    float64
		want  float64
	}{
		{"scale low", FieldScale, 0.1, 0.5},
		{"scale high", FieldScale, 9, 3},
		{"scale verbatim", FieldScale, 1.3, 1.3},
		{"rotation low", FieldRotation, -200, -180},
		{"rotation high", FieldRotation, 181, 180},
		{"rotation verbatim", FieldRotation, 42, 42},
		{"x high", FieldTranslateX, 2000, 1080},
		{"y low", FieldTranslateY, -2000, -1350},
		{"nan scale", FieldScale, math.NaN(), 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Identity().Set(tt.field, tt.in).Get(tt.field)
			if got != tt.want {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScaled(t *testing.T) {
	tr := PhotoTransform{TranslateX: 13.5, TranslateY: -7, Scale: 1}
	x, y := tr.Scaled(2)
	if x != 27 || y != -14 {
		t.Fatalf("got %v,%v", x, y)
	}
}

func TestControlsCommitOnRelease(t *testing.T) {
	committed := Identity()
	c := NewControls(committed, func(f Field, v float64) {
		committed = committed.Set(f, v)
	})
	c.Drag(FieldScale, 1.5)
	c.Drag(FieldScale, 2.5)
	if committed.Scale != 1 {
		t.Fatalf("drag leaked into committed model: %+v", committed)
	}
	if c.Local().Scale != 2.5 {
		t.Fatalf("local copy not updated: %+v", c.Local())
	}
	c.Commit(FieldScale)
	if committed.Scale != 2.5 {
		t.Fatalf("commit did not write through: %+v", committed)
	}
	c.Sync(Identity())
	if c.Local() != Identity() {
		t.Fatalf("sync failed: %+v", c.Local())
	}
}

func TestParseField(t *testing.T) {
	for _, f := range []Field{FieldScale, FieldRotation, FieldTranslateX, FieldTranslateY} {
		got, err := ParseField(f.String())
		if err != nil || got != f {
			t.Fatalf("round trip %v: got %v, %v", f, got, err)
		}
	}
	if _, err := ParseField("zoom"); err == nil {
		t.Fatal("expected error for unknown control")
	}
}
