package wave // import "moul.io/wavetel/pkg/wave"

import (
	"strings"

	"github.com/mgutz/ansi"
)

// Escape sequences shared by the renderer and the session loop. Colors go
// through mgutz/ansi, cursor control has no SGR equivalent and stays literal.
var (
	// Water paints the animation background, bold white on cyan.
	Water = ansi.ColorCode("white+b:cyan")
	// Reset restores the terminal default rendition.
	Reset = ansi.Reset
)

const (
	bold       = "\x1b[1m"
	cursorHome = "\x1b[H"
	// ClearScreen wipes the client display once before the first frame.
	ClearScreen = "\x1b[2J"
)

// ColorToken marks the spot in a cached frame where the subtitle color goes.
// The session substitutes it per frame, so a single cached frame serves
// every color phase.
const ColorToken = "\x00"

// palette cycled by the banner subtitle, one step every 7 frames.
var palette = [4]string{
	ansi.ColorCode("magenta+b"),
	ansi.ColorCode("green"),
	ansi.ColorCode("red+b"),
	ansi.ColorCode("yellow+b"),
}

// PatternLen is the period of the wave, in rows. Offsets wrap modulo this.
const PatternLen = 10

const (
	patternMotif  = "'^^'-.__.-"
	patternRepeat = 20
)

// Pattern holds the wave motif: PatternLen rows, each one the same period
// started a glyph later, prerendered wider than most terminals. Render
// tiles the period further for anything wider still.
var Pattern = buildPattern()

func buildPattern() [PatternLen]string {
	var p [PatternLen]string
	for i := 0; i < PatternLen; i++ {
		p[i] = strings.Repeat(patternMotif[i:]+patternMotif[:i], patternRepeat)
	}
	return p
}

// BannerRows and BannerCols bound the overlay. Terminals smaller than this
// in either direction get the bare wave, never a clipped banner.
const (
	BannerRows = 5
	BannerCols = 17
)

var bannerText = [BannerRows]string{
	"                 ",
	"  W A V E T E L  ",
	"  -------------  ",
	"  Ride the Wave  ",
	"                 ",
}

// styledBanner carries the escape wrapping for each row: punch out of the
// water color, draw the text, restore the water. The subtitle row holds
// ColorToken instead of a concrete color.
var styledBanner = buildBanner()

func buildBanner() [BannerRows]string {
	var b [BannerRows]string
	b[0] = Reset + bannerText[0] + Water
	b[1] = Reset + bold + bannerText[1] + Reset + Water
	b[2] = Reset + bannerText[2] + Water
	b[3] = Reset + ColorToken + bannerText[3] + Reset + Water
	b[4] = Reset + bannerText[4] + Water
	return b
}

const (
	footerTag  = "wav"
	footerHint = "[q]uit"
)

// PaletteColor returns the subtitle color for a frame. The argument is the
// monotonic frame counter, not the wrapped pattern offset: the palette
// cycles slower than the wave and drifts across its phase.
func PaletteColor(frame int) string {
	if frame < 0 {
		frame = -frame
	}
	return palette[(frame/7)%len(palette)]
}

// Render produces one full screen of animation for a rows x cols terminal
// at the given pattern offset. Rendering is deterministic, equal inputs
// yield byte-identical output, which is what makes frames cacheable.
func Render(rows, cols, offset int) string {
	if rows < 1 {
		rows = 1
	}
	if cols < 1 {
		cols = 1
	}
	offset = ((offset % PatternLen) + PatternLen) % PatternLen

	// Every line comes out exactly cols wide, so the banner and footer can
	// splice by byte offset no matter what width the client reported.
	lines := make([]string, rows)
	for i := range lines {
		row := Pattern[(offset+i)%PatternLen]
		if cols <= len(row) {
			lines[i] = row[:cols]
			continue
		}
		period := row[:len(patternMotif)]
		lines[i] = strings.Repeat(period, cols/len(patternMotif)+1)[:cols]
	}

	withBanner := rows >= BannerRows && cols >= BannerCols
	startRow := (rows - BannerRows) / 2

	// The footer splices by byte offset, so it must skip a bottom line the
	// banner is about to rewrite with escape sequences.
	if !withBanner || startRow+BannerRows <= rows-1 {
		lines[rows-1] = footer(lines[rows-1])
	}

	if withBanner {
		startCol := (cols - BannerCols) / 2
		for i, text := range styledBanner {
			line := lines[startRow+i]
			lines[startRow+i] = line[:startCol] + text + line[startCol+BannerCols:]
		}
	}

	return cursorHome + Water + strings.Join(lines, "\r\n") + Reset
}

// footer stamps the attribution tag into the bottom-left corner and the
// quit hint into the bottom-right one, leaving the water between them as is.
func footer(line string) string {
	if len(line) <= len(footerTag)+len(footerHint) {
		return line
	}
	middle := line[len(footerTag) : len(line)-len(footerHint)]
	return Reset + footerTag + Water + middle + Reset + footerHint + Water
}
