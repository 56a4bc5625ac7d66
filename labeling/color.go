package labeling

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/tnqbao/gau-image-labeler/entity"
)

var fixedPalette = map[string]string{
	"#000000": "Black",
	"#ffffff": "White",
	"#ff0000": "Red",
	"#00ff00": "Lime",
	"#0000ff": "Blue",
	"#ffff00": "Yellow",
	"#00ffff": "Cyan",
	"#ff00ff": "Magenta",
	"#c0c0c0": "Silver",
	"#808080": "Gray",
	"#800000": "Maroon",
	"#808000": "Olive",
	"#008000": "Green",
	"#800080": "Purple",
	"#008080": "Teal",
	"#000080": "Navy",
}

type namedColor struct {
	name  string
	color colorful.Color
}

// basicPalette order decides ties, fuchsia wins over magenta.
var basicPalette = []namedColor{
	{"black", mustHex("#000000")},
	{"blue", mustHex("#0000FF")},
	{"cyan", mustHex("#00FFFF")},
	{"green", mustHex("#008000")},
	{"teal", mustHex("#008080")},
	{"turquoise", mustHex("#40E0D0")},
	{"indigo", mustHex("#4B0082")},
	{"gray", mustHex("#808080")},
	{"purple", mustHex("#800080")},
	{"brown", mustHex("#A52A2A")},
	{"tan", mustHex("#D2B48C")},
	{"violet", mustHex("#EE82EE")},
	{"beige", mustHex("#F5F5DC")},
	{"fuchsia", mustHex("#FF00FF")},
	{"gold", mustHex("#FFD700")},
	{"magenta", mustHex("#FF00FF")},
	{"orange", mustHex("#FFA500")},
	{"pink", mustHex("#FFC0CB")},
	{"red", mustHex("#FF0000")},
	{"white", mustHex("#FFFFFF")},
	{"yellow", mustHex("#FFFF00")},
}

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

func hexColor(r, g, b uint8) string {
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

// NameColor returns the palette name of an exact match, else the #rrggbb form.
func NameColor(r, g, b uint8) string {
	hex := hexColor(r, g, b)
	if name, ok := fixedPalette[hex]; ok {
		return name
	}
	return hex
}

// NearestBasicName returns the basic palette color closest in CIE Lab space.
func NearestBasicName(r, g, b uint8) string {
	c := colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}

	best := basicPalette[0]
	bestDist := c.DistanceLab(best.color)
	for _, candidate := range basicPalette[1:] {
		if d := c.DistanceLab(candidate.color); d < bestDist {
			best, bestDist = candidate, d
		}
	}
	return best.name
}

// TopColors names the first limit dominant colors in service order.
func TopColors(props entity.Optional[entity.ImageProperties], limit int) []string {
	names := make([]string, 0, limit)
	p, ok := props.Get()
	if !ok {
		return names
	}

	for _, info := range p.DominantColors {
		if len(names) == limit {
			break
		}
		names = append(names, NameColor(info.Color.RGB()))
	}
	return names
}
