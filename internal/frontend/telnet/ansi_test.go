package telnet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestColorize(t *testing.T) {
	assert.Equal(t, "\033[31mdanger\033[0m", Colorize(Red, "danger"))
	assert.Equal(t, "\033[32mblood: 3\033[0m", Colorf(Green, "blood: %d", 3))
}

func TestStripANSI(t *testing.T) {
	assert.Equal(t, "red normal bold green", StripANSI("\033[31mred\033[0m normal \033[1m\033[32mbold green\033[0m"))
	assert.Equal(t, "plain", StripANSI("plain"))
	assert.Equal(t, "", StripANSI(""))
	assert.Equal(t, "a\033[31", StripANSI("a\033[31"), "unterminated sequences are kept")
}

func TestPadRight(t *testing.T) {
	assert.Equal(t, "ab   ", PadRight("ab", 5))
	colored := Colorize(Red, "ab")
	assert.Equal(t, colored+"   ", PadRight(colored, 5))
	assert.Equal(t, "toolong", PadRight("toolong", 3))
	assert.Equal(t, 5, Width(Dots(2, 5)))
}

func TestDots(t *testing.T) {
	assert.Equal(t, "●●●○○", Dots(3, 5))
	assert.Equal(t, "○○○○○", Dots(-1, 5))
	assert.Equal(t, "●", Dots(4, 1))
}

func TestPropertyStripANSIInversesColorize(t *testing.T) {
	colors := []string{Red, Green, Yellow, Cyan, White, Bold, Dim, BrightMagenta}
	rapid.Check(t, func(t *rapid.T) {
		text := rapid.StringMatching(`[a-zA-Z0-9 ]{0,50}`).Draw(t, "text")
		color := rapid.SampledFrom(colors).Draw(t, "color")
		assert.Equal(t, text, StripANSI(Colorize(color, text)))
	})
}

func TestPropertyStripANSINeverGrows(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		text := rapid.String().Draw(t, "text")
		assert.LessOrEqual(t, len(StripANSI(text)), len(text))
	})
}
