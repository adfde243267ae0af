package theme

import (
	"image/color"
)

// Theme defines the colours of the editor window.
type Theme struct {
	Name string

	// General
	Background color.RGBA // Window background around the canvas
	Foreground color.RGBA // Labels and status text
	Error      color.RGBA // Status text for failures

	// Side panel
	PanelBackground color.RGBA
	SliderTrack     color.RGBA
	SliderFill      color.RGBA
	SliderKnob      color.RGBA

	// Buttons and filter cards
	ButtonBackground      color.RGBA
	ButtonBackgroundHover color.RGBA
	ButtonBackgroundPress color.RGBA
	ButtonText            color.RGBA
	ButtonBorder          color.RGBA
	Selection             color.RGBA // Outline of the active filter card

	// Canvas
	CheckerLight color.RGBA
	CheckerDark  color.RGBA
}

// Default returns the built in light theme.
func Default() *Theme {
	return &Theme{
		Name:                  "Default",
		Background:            color.RGBA{228, 228, 228, 255},
		Foreground:            color.RGBA{20, 20, 20, 255},
		Error:                 color.RGBA{180, 30, 30, 255},
		PanelBackground:       color.RGBA{240, 240, 240, 255},
		SliderTrack:           color.RGBA{190, 190, 190, 255},
		SliderFill:            color.RGBA{46, 125, 50, 255},
		SliderKnob:            color.RGBA{30, 30, 30, 255},
		ButtonBackground:      color.RGBA{205, 205, 205, 255},
		ButtonBackgroundHover: color.RGBA{185, 185, 185, 255},
		ButtonBackgroundPress: color.RGBA{155, 155, 155, 255},
		ButtonText:            color.RGBA{0, 0, 0, 255},
		ButtonBorder:          color.RGBA{0, 0, 0, 255},
		Selection:             color.RGBA{46, 125, 50, 255},
		CheckerLight:          color.RGBA{220, 220, 220, 255},
		CheckerDark:           color.RGBA{192, 192, 192, 255},
	}
}
