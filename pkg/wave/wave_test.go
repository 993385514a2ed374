package wave

import (
	"strings"
	"testing"

	"github.com/smartystreets/goconvey/convey"
)

func frameLines(frame string) []string {
	body := strings.TrimPrefix(frame, cursorHome+Water)
	body = strings.TrimSuffix(body, Reset)
	return strings.Split(body, "\r\n")
}

func TestRender(t *testing.T) {
	convey.Convey("Testing Render", t, func() {
		convey.Convey("fills the terminal with shifted wave rows", func() {
			frame := Render(12, 40, 3)
			lines := frameLines(frame)
			convey.So(len(lines), convey.ShouldEqual, 12)
			for i, line := range lines {
				convey.So(line, convey.ShouldEqual, Pattern[(3+i)%PatternLen][:40])
			}
		})
		convey.Convey("tiles the wave past the prerendered width", func() {
			for _, cols := range []int{201, 385, 500, 65535} {
				lines := frameLines(Render(3, cols, 0))
				convey.So(len(lines[0]), convey.ShouldEqual, cols)
				convey.So(lines[0][:len(Pattern[0])], convey.ShouldEqual, Pattern[0])
				convey.So(lines[0][len(patternMotif):], convey.ShouldEqual, lines[0][:cols-len(patternMotif)])
			}
		})
		convey.Convey("is deterministic", func() {
			convey.So(Render(24, 80, 5), convey.ShouldEqual, Render(24, 80, 5))
		})
		convey.Convey("wraps offsets modulo the pattern period", func() {
			for k := 1; k < 4; k++ {
				convey.So(Render(24, 80, 7+k*PatternLen), convey.ShouldEqual, Render(24, 80, 7))
			}
			convey.So(Render(10, 30, -3), convey.ShouldEqual, Render(10, 30, 7))
		})
		convey.Convey("centers the whole banner when it fits", func() {
			frame := Render(24, 80, 0)
			lines := frameLines(frame)
			convey.So(strings.Count(frame, ColorToken), convey.ShouldEqual, 1)
			for i := 0; i < BannerRows; i++ {
				background := Pattern[(9+i)%PatternLen][:80]
				convey.So(lines[9+i], convey.ShouldEqual, background[:31]+styledBanner[i]+background[48:])
			}
			convey.So(frame, convey.ShouldContainSubstring, "W A V E T E L")
			convey.So(frame, convey.ShouldContainSubstring, "Ride the Wave")
		})
		convey.Convey("centers the banner on very wide terminals", func() {
			lines := frameLines(Render(24, 385, 0))
			for i := 0; i < BannerRows; i++ {
				background := strings.Repeat(Pattern[(9+i)%PatternLen][:len(patternMotif)], 39)[:385]
				convey.So(lines[9+i], convey.ShouldEqual, background[:184]+styledBanner[i]+background[201:])
			}

			huge := Render(24, 65535, 0)
			convey.So(len(frameLines(huge)), convey.ShouldEqual, 24)
			convey.So(len(frameLines(huge)[0]), convey.ShouldEqual, 65535)
			convey.So(huge, convey.ShouldContainSubstring, "W A V E T E L")
		})
		convey.Convey("drops the banner entirely on small terminals", func() {
			for _, geometry := range [][2]int{{4, 200}, {24, 16}, {1, 1}, {5, 5}} {
				frame := Render(geometry[0], geometry[1], 0)
				convey.So(frame, convey.ShouldNotContainSubstring, "W A V E T E L")
				convey.So(frame, convey.ShouldNotContainSubstring, bold)
				convey.So(strings.Count(frame, ColorToken), convey.ShouldEqual, 0)
			}
			convey.So(Render(BannerRows, BannerCols, 0), convey.ShouldContainSubstring, "W A V E T E L")
		})
		convey.Convey("stamps the footer on wide enough terminals", func() {
			lines := frameLines(Render(3, 80, 0))
			background := Pattern[2][:80]
			convey.So(lines[2], convey.ShouldEqual, Reset+footerTag+Water+background[3:74]+Reset+footerHint+Water)

			convey.So(Render(3, 9, 0), convey.ShouldNotContainSubstring, footerHint)
			convey.So(Render(3, 10, 0), convey.ShouldContainSubstring, footerHint)
		})
		convey.Convey("skips the footer when the banner owns the bottom row", func() {
			convey.So(Render(BannerRows, BannerCols, 0), convey.ShouldNotContainSubstring, footerHint)
			convey.So(Render(BannerRows+1, BannerCols, 0), convey.ShouldContainSubstring, footerHint)
		})
		convey.Convey("clamps degenerate geometry", func() {
			frame := Render(0, 0, 0)
			lines := frameLines(frame)
			convey.So(len(lines), convey.ShouldEqual, 1)
			convey.So(lines[0], convey.ShouldEqual, Pattern[0][:1])
		})
	})
}

func TestPaletteColor(t *testing.T) {
	convey.Convey("Testing PaletteColor", t, func() {
		convey.Convey("holds each color for 7 frames", func() {
			for frame := 0; frame < 28; frame++ {
				convey.So(PaletteColor(frame), convey.ShouldEqual, palette[frame/7])
			}
		})
		convey.Convey("cycles back after the fourth color", func() {
			convey.So(PaletteColor(28), convey.ShouldEqual, palette[0])
			convey.So(PaletteColor(56), convey.ShouldEqual, PaletteColor(0))
			convey.So(PaletteColor(70), convey.ShouldEqual, palette[2])
		})
	})
}

func TestPattern(t *testing.T) {
	convey.Convey("Testing Pattern", t, func() {
		convey.Convey("every row is the previous one shifted by a glyph", func() {
			for i := 1; i < PatternLen; i++ {
				convey.So(Pattern[i][:len(patternMotif)-1], convey.ShouldEqual, Pattern[i-1][1:len(patternMotif)])
			}
		})
		convey.Convey("prerenders twenty periods per row", func() {
			for _, row := range Pattern {
				convey.So(len(row), convey.ShouldEqual, len(patternMotif)*patternRepeat)
			}
		})
	})
}
