package cssrw

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// gamutEpsilon bounds how far a linear channel may leave [0,1] before the
// color counts as out of gamut and folding abstains.
const gamutEpsilon = 1e-6

// foldOKLCH parses the inner text of an oklch() call and returns the
// equivalent hex literal, or ok=false to abstain (parse trouble, relative
// color syntax, or an out-of-gamut result).
func foldOKLCH(inner string) (string, bool) {
	fields := strings.Fields(strings.ReplaceAll(inner, "/", " / "))
	if len(fields) != 3 && len(fields) != 5 {
		return "", false
	}

	l, ok := parseNumberOrPercent(fields[0])
	if !ok || l < 0 || l > 1 {
		return "", false
	}
	c, ok := parseNumber(fields[1])
	if !ok || c < 0 {
		return "", false
	}
	h, ok := parseHueDegrees(fields[2])
	if !ok {
		return "", false
	}
	alpha := 1.0
	if len(fields) == 5 {
		if fields[3] != "/" {
			return "", false
		}
		alpha, ok = parseNumberOrPercent(fields[4])
		if !ok {
			return "", false
		}
		alpha = math.Min(1, math.Max(0, alpha))
	}

	r, g, b, ok := oklchToLinearRGB(l, c, h)
	if !ok {
		return "", false
	}
	return formatHex(encodeByte(r), encodeByte(g), encodeByte(b), alpha), true
}

// oklchToLinearRGB applies the OKLab forward transform and the fixed
// OKLab-to-linear-sRGB matrix. ok is false when any linear channel falls
// outside [0,1] by more than gamutEpsilon.
func oklchToLinearRGB(l, c, hDeg float64) (r, g, b float64, ok bool) {
	hRad := hDeg * math.Pi / 180
	a := c * math.Cos(hRad)
	bb := c * math.Sin(hRad)

	lp := l + 0.3963377774*a + 0.2158037573*bb
	mp := l - 0.1055613458*a - 0.0638541728*bb
	sp := l - 0.0894841775*a - 1.2914855480*bb

	lc := lp * lp * lp
	mc := mp * mp * mp
	sc := sp * sp * sp

	r = 4.0767416621*lc - 3.3077115913*mc + 0.2309699292*sc
	g = -1.2684380046*lc + 2.6097574011*mc - 0.3413193965*sc
	b = -0.0041960863*lc - 0.7034186147*mc + 1.7076147010*sc

	for _, ch := range [3]float64{r, g, b} {
		if ch < -gamutEpsilon || ch > 1+gamutEpsilon {
			return 0, 0, 0, false
		}
	}
	return r, g, b, true
}

// srgbEncode applies the sRGB transfer function to a linear channel.
func srgbEncode(v float64) float64 {
	if v <= 0.0031308 {
		return 12.92 * v
	}
	return 1.055*math.Pow(v, 1/2.4) - 0.055
}

// srgbDecode inverts srgbEncode; exported logic for the round-trip tests.
func srgbDecode(v float64) float64 {
	if v <= 0.04045 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

func encodeByte(linear float64) byte {
	v := srgbEncode(math.Min(1, math.Max(0, linear)))
	return byte(math.Round(v * 255))
}

// formatHex renders #rrggbb[aa], compressed to the 3/4-digit short form
// when every channel's two digits repeat. The alpha byte appears only when
// alpha < 1.
func formatHex(r, g, b byte, alpha float64) string {
	withAlpha := alpha < 1
	a := byte(math.Round(alpha * 255))

	short := func(v byte) bool { return v>>4 == v&0xF }
	if short(r) && short(g) && short(b) && (!withAlpha || short(a)) {
		if withAlpha {
			return fmt.Sprintf("#%x%x%x%x", r&0xF, g&0xF, b&0xF, a&0xF)
		}
		return fmt.Sprintf("#%x%x%x", r&0xF, g&0xF, b&0xF)
	}
	if withAlpha {
		return fmt.Sprintf("#%02x%02x%02x%02x", r, g, b, a)
	}
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

func parseNumber(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func parseNumberOrPercent(s string) (float64, bool) {
	if strings.HasSuffix(s, "%") {
		v, ok := parseNumber(s[:len(s)-1])
		return v / 100, ok
	}
	return parseNumber(s)
}

// parseHueDegrees accepts a bare number (degrees) or an explicit angle
// unit: deg, rad, grad or turn.
func parseHueDegrees(s string) (float64, bool) {
	low := asciiLower(s)
	switch {
	case strings.HasSuffix(low, "deg"):
		return parseNumber(s[:len(s)-3])
	case strings.HasSuffix(low, "grad"):
		v, ok := parseNumber(s[:len(s)-4])
		return v * 0.9, ok
	case strings.HasSuffix(low, "rad"):
		v, ok := parseNumber(s[:len(s)-3])
		return v * 180 / math.Pi, ok
	case strings.HasSuffix(low, "turn"):
		v, ok := parseNumber(s[:len(s)-4])
		return v * 360, ok
	default:
		return parseNumber(s)
	}
}
