package service

import (
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// HexToColorName resolves a #RRGGBB (or #RGB) value to an SVG 1.1 color
// name. Values that do not correspond to a named color are rejected, the
// tag palette is restricted to nameable colors.
func HexToColorName(hex string) (string, error) {
	value := strings.TrimPrefix(hex, "#")
	if len(value) == 3 {
		value = strings.Repeat(string(value[0]), 2) +
			strings.Repeat(string(value[1]), 2) +
			strings.Repeat(string(value[2]), 2)
	}
	if len(value) != 6 {
		return "", validationf("color must be a hex value like #49B64E")
	}

	n, err := strconv.ParseUint(value, 16, 32)
	if err != nil {
		return "", validationf("color must be a hex value like #49B64E")
	}
	r, g, b := uint8(n>>16), uint8(n>>8), uint8(n)

	for _, name := range colornames.Names {
		c := colornames.Map[name]
		if c.R == r && c.G == g && c.B == b {
			return name, nil
		}
	}
	return "", validationf("there is no name for this color")
}
