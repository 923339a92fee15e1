package registry

import (
	"crypto/md5"
	"math"
)

// Color is a 16-bit-per-channel RGB colour as used by AllocColor.
type Color struct {
	R, G, B uint16
}

// Theme is the per-application decoration palette.
type Theme struct {
	Bar      Color
	Maximize Color
	Close    Color
}

// ThemeFor derives a palette from an application class name. The same
// name always yields the same palette.
func ThemeFor(appName string) Theme {
	if appName == "" {
		appName = "unknown"
	}
	sum := md5.Sum([]byte(appName))
	r := float64(int(sum[0])%150+50) * 257
	g := float64(int(sum[1])%150+50) * 257
	b := float64(int(sum[2])%150+50) * 257

	return Theme{
		Bar:      scaled(r, g, b, 1.0),
		Maximize: scaled(r, g, b, 1.3),
		Close:    scaled(r, g, b, 0.6),
	}
}

func scaled(r, g, b, f float64) Color {
	return Color{R: channel(r * f), G: channel(g * f), B: channel(b * f)}
}

func channel(v float64) uint16 {
	return uint16(math.Max(0, math.Min(65535, v)))
}
