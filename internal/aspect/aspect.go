// Package aspect computes where a photo is drawn inside a target canvas.
package aspect

// Placement is the draw rectangle for an image centred in a target.
type Placement struct {
	DrawW   float64
	DrawH   float64
	OffsetX float64
	OffsetY float64
}

// FitCover sizes an image of intrinsicW x intrinsicH for a targetW x targetH
// canvas while preserving its aspect ratio. Landscape images (aspect > 1) take
// the full target width; portrait and square images take the full target
// height. The result is centred in the target.
//
// Non-positive intrinsic sizes yield a zero-size placement at the centre.
func FitCover(intrinsicW, intrinsicH, targetW, targetH float64) Placement {
	if intrinsicW <= 0 || intrinsicH <= 0 {
		return Placement{OffsetX: targetW / 2, OffsetY: targetH / 2}
	}
	aspect := intrinsicW / intrinsicH
	drawW, drawH := targetW, targetH
	if aspect > 1 {
		drawH = drawW / aspect
	} else {
		drawW = drawH * aspect
	}
	return Placement{
		DrawW:   drawW,
		DrawH:   drawH,
		OffsetX: (targetW - drawW) / 2,
		OffsetY: (targetH - drawH) / 2,
	}
}
