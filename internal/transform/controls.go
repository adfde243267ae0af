package transform

import "fmt"

// Field identifies one control-surface input.
type Field int

const (
	FieldScale Field = iota
	FieldRotation
	FieldTranslateX
	FieldTranslateY
)

var fieldNames = []string{"scale", "rotation", "x", "y"}

func (f Field) String() string {
	if f < 0 || int(f) >= len(fieldNames) {
		return fmt.Sprintf("Field(%d)", int(f))
	}
	return fieldNames[f]
}

// ParseField maps a control name to a Field.
func ParseField(s string) (Field, error) {
	for i, n := range fieldNames {
		if n == s {
			return Field(i), nil
		}
	}
	return 0, fmt.Errorf("unknown control %q", s)
}

// Set returns t with field f replaced by v, clamped to the field's range.
func (t PhotoTransform) Set(f Field, v float64) PhotoTransform {
	switch f {
	case FieldScale:
		return t.WithScale(v)
	case FieldRotation:
		return t.WithRotation(v)
	case FieldTranslateX:
		return t.WithTranslateX(v)
	case FieldTranslateY:
		return t.WithTranslateY(v)
	}
	return t
}

// Get returns the value of field f.
func (t PhotoTransform) Get(f Field) float64 {
	switch f {
	case FieldScale:
		return t.Scale
	case FieldRotation:
		return t.RotationDegrees
	case FieldTranslateX:
		return t.TranslateX
	case FieldTranslateY:
		return t.TranslateY
	}
	return 0
}

// Controls mirrors the committed transform for the slider surface. Dragging a
// control only updates the local copy; Commit writes the value through to the
// committed model via the supplied callback.
type Controls struct {
	local  PhotoTransform
	commit func(Field, float64)
}

// NewControls creates Controls synchronised with t. commit is invoked with the
// clamped value whenever a control is released.
func NewControls(t PhotoTransform, commit func(Field, float64)) *Controls {
	return &Controls{local: t, commit: commit}
}

// Drag updates the local copy only.
func (c *Controls) Drag(f Field, v float64) {
	c.local = c.local.Set(f, v)
}

// Commit releases control f, writing its local value to the committed model.
func (c *Controls) Commit(f Field) {
	if c.commit != nil {
		c.commit(f, c.local.Get(f))
	}
}

// Sync overwrites the local copy, e.g. after a reset, a drag or a new upload.
func (c *Controls) Sync(t PhotoTransform) { c.local = t }

// Local returns the local slider values.
func (c *Controls) Local() PhotoTransform { return c.local }
