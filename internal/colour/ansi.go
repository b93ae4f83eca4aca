package colour

import (
	"strings"

	"github.com/fatih/color"
)

const swatchWidth = 8

// DisableColourOutput turns every helper below into plain text.
var DisableColourOutput = false

// forced opts c out of color.NoColor, which only looks at os.Stdout;
// DisableColourOutput is the switch that counts here.
func forced(c *color.Color) *color.Color {
	c.EnableColor()
	return c
}

func paint(c *color.Color, s string) string {
	if DisableColourOutput {
		return s
	}
	return c.Sprint(s)
}

// ColourPreview is a solid block of c, width cells wide.
func ColourPreview(c RGB, width int) string {
	if width <= 0 {
		width = swatchWidth
	}
	return paint(forced(color.BgRGB(int(c.R), int(c.G), int(c.B))), strings.Repeat(" ", width))
}

// SwatchWithText centres text in a width-cell block, truncating it if
// needed, and paints it fg on bg.
func SwatchWithText(bg, fg RGB, text string, width int) string {
	if width <= 0 {
		width = swatchWidth
	}
	if r := []rune(text); len(r) > width {
		text = string(r[:width])
	}
	gap := width - len([]rune(text))
	cell := strings.Repeat(" ", gap/2) + text + strings.Repeat(" ", gap-gap/2)
	c := color.BgRGB(int(bg.R), int(bg.G), int(bg.B)).AddRGB(int(fg.R), int(fg.G), int(fg.B))
	return paint(forced(c), cell)
}

// CombinationSwatch shows "Aa" in the combination's colours.
func CombinationSwatch(c Combination, width int) string {
	return SwatchWithText(c.BackgroundRGB(), c.TextRGB(), "Aa", width)
}

// ColourString writes text in rgb.
func ColourString(rgb RGB, text string) string {
	return paint(forced(color.RGB(int(rgb.R), int(rgb.G), int(rgb.B))), text)
}

var levelColours = map[Level]*color.Color{
	LevelAAA:  forced(color.New(color.FgGreen, color.Bold)),
	LevelAA:   forced(color.New(color.FgYellow)),
	LevelFail: forced(color.New(color.FgRed, color.Bold)),
}

// LevelString names l in green, yellow or red.
func LevelString(l Level) string {
	c, ok := levelColours[l]
	if !ok {
		c = levelColours[LevelFail]
	}
	return paint(c, l.String())
}
