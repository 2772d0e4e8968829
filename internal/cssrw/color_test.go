package cssrw

import (
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFoldOKLCHExtremes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{"white shortens", "1 0 0", "#fff", true},
		{"black shortens", "0 0 0", "#000", true},
		{"percent lightness", "100% 0 0", "#fff", true},
		{"out of gamut abstains", "0.9 0.4 30", "", false},
		{"negative chroma abstains", "0.5 -0.1 30", "", false},
		{"lightness above one abstains", "1.5 0 0", "", false},
		{"malformed abstains", "0.5 0.1", "", false},
		{"alpha half", "1 0 0 / 50%", "#ffffff80", true},
		{"alpha short form", "0 0 0 / 0.2", "#0003", true},
		{"alpha one omitted", "1 0 0 / 1", "#fff", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := foldOKLCH(tt.in)
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				require.Equal(t, tt.want, got)
			}
		})
	}
}

func TestFoldOKLCHHueUnits(t *testing.T) {
	// The same hue in four notations must fold identically.
	base, ok := foldOKLCH("0.6 0.1 90")
	require.True(t, ok)

	for _, in := range []string{"0.6 0.1 90deg", "0.6 0.1 100grad", "0.6 0.1 0.25turn", "0.6 0.1 1.5707963268rad"} {
		got, ok := foldOKLCH(in)
		require.True(t, ok, "input %q", in)
		require.Equal(t, base, got, "input %q", in)
	}
}

// decodeHexChannel converts two hex digits back to a linear channel.
func decodeHexChannel(t *testing.T, hh string) float64 {
	t.Helper()
	v, err := strconv.ParseUint(hh, 16, 8)
	require.NoError(t, err)
	return srgbDecode(float64(v) / 255)
}

func TestFoldOKLCHRoundTrip(t *testing.T) {
	cases := []struct {
		l, c, h string
	}{
		{"0.6", "0.1", "30"},
		{"0.7", "0.05", "200"},
		{"0.35", "0.02", "300"},
		{"0.55", "0.12", "140"},
	}

	for _, tc := range cases {
		hex, ok := foldOKLCH(tc.l + " " + tc.c + " " + tc.h)
		require.True(t, ok, "oklch(%s %s %s)", tc.l, tc.c, tc.h)

		// Expand the 3-digit short form before decoding.
		digits := hex[1:]
		if len(digits) == 3 {
			digits = string([]byte{digits[0], digits[0], digits[1], digits[1], digits[2], digits[2]})
		}
		require.Len(t, digits, 6)

		l, _ := strconv.ParseFloat(tc.l, 64)
		c, _ := strconv.ParseFloat(tc.c, 64)
		h, _ := strconv.ParseFloat(tc.h, 64)
		r, g, b, inGamut := oklchToLinearRGB(l, c, h)
		require.True(t, inGamut)

		for i, want := range []float64{r, g, b} {
			got := decodeHexChannel(t, digits[i*2:i*2+2])
			// Each channel must survive the byte quantization within one
			// encoded step.
			require.InDelta(t, srgbEncode(want), srgbEncode(got), 1.0/255, "channel %d of %s", i, hex)
		}
	}
}

func TestFoldColorsInStylesheet(t *testing.T) {
	in := []byte(".a{color:oklch(1 0 0);border-color:oklch(0.9 0.4 30)}")
	out := FoldColors(in)
	require.Equal(t, ".a{color:#fff;border-color:oklch(0.9 0.4 30)}", string(out))
}

func TestFoldColorsReplacesOnlyWhenShorter(t *testing.T) {
	// Every successful fold must shrink the text.
	in := []byte(".a{color:oklch(0.55 0.12 140)}")
	out := FoldColors(in)
	require.Less(t, len(out), len(in))
}

func TestGamutEpsilonBoundary(t *testing.T) {
	_, _, _, ok := oklchToLinearRGB(1, 0, 0)
	require.True(t, ok, "white sits on the gamut boundary and must not abstain")
	require.Less(t, math.Abs(srgbEncode(1)-1), 1e-12)
}
