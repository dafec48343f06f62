package render

import "strings"

// rgba is a color with components in [0, 1].
type rgba struct{ r, g, b, a float64 }

func rgb255(r, g, b int, alpha float64) rgba {
	return rgba{float64(r) / 255, float64(g) / 255, float64(b) / 255, alpha}
}

type lineStyle struct {
	color rgba
	width float64
}

var (
	minorContourStyle = lineStyle{color: rgb255(169, 169, 169, 0.3), width: 0.5}
	majorContourStyle = lineStyle{color: rgb255(105, 105, 105, 0.7), width: 1.0}
	waterFill         = rgb255(173, 216, 230, 0.3)
	waterEdge         = lineStyle{color: rgb255(173, 216, 230, 0.6), width: 0.5}
	liftStyle         = lineStyle{color: rgb255(139, 0, 0, 1.0), width: 3.0}

	pisteWidth = 2.0
	pisteAlpha = 0.7
)

// pisteColor maps a difficulty tag to its trail color. Unknown difficulties
// are drawn blue.
func pisteColor(difficulty string) rgba {
	switch strings.ToLower(strings.TrimSpace(difficulty)) {
	case "novice":
		return rgb255(0, 128, 0, pisteAlpha)
	case "easy":
		return rgb255(0, 0, 255, pisteAlpha)
	case "intermediate":
		return rgb255(255, 0, 0, pisteAlpha)
	case "advanced", "expert":
		return rgb255(0, 0, 0, pisteAlpha)
	default:
		return rgb255(0, 0, 255, pisteAlpha)
	}
}
