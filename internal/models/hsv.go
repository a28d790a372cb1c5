package models

import (
	"fmt"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// Channel domains in the 8-bit OpenCV HSV convention.
const (
	HueMax        = 179
	SaturationMax = 255
	ValueMax      = 255
)

// Triple is one HSV point.
type Triple struct {
	H, S, V int
}

// HSVBounds is an inclusive per-channel range. Lower may exceed Upper on a
// channel, which selects nothing on that channel.
type HSVBounds struct {
	Lower Triple
	Upper Triple
}

// Inverted reports the channels where Lower exceeds Upper.
func (b HSVBounds) Inverted() []string {
	var channels []string
	if b.Lower.H > b.Upper.H {
		channels = append(channels, "H")
	}
	if b.Lower.S > b.Upper.S {
		channels = append(channels, "S")
	}
	if b.Lower.V > b.Upper.V {
		channels = append(channels, "V")
	}
	return channels
}

func (b HSVBounds) String() string {
	return fmt.Sprintf("[%s]..[%s]", FormatTriple(b.Lower), FormatTriple(b.Upper))
}

// FormatTriple renders a triple the way it is copied to the clipboard: "h,s,v".
func FormatTriple(t Triple) string {
	return fmt.Sprintf("%d,%d,%d", t.H, t.S, t.V)
}

// Color converts the triple to display RGB. Hue is doubled back to degrees.
func (t Triple) Color() color.NRGBA {
	c := colorful.Hsv(float64(t.H)*2, float64(t.S)/SaturationMax, float64(t.V)/ValueMax).Clamped()
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 0xff}
}
