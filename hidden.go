package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli"
	"golang.org/x/term"

	"moul.io/wavetel/pkg/lobby"
	"moul.io/wavetel/pkg/wave"
)

// dumpFrame is a hidden helper used to eyeball renderer output without starting a server (used for integration tests)
func dumpFrame(c *cli.Context) error {
	rows, cols := c.Int("rows"), c.Int("cols")
	if rows < 1 || cols < 1 {
		if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			if cols < 1 {
				cols = w
			}
			if rows < 1 {
				rows = h
			}
		}
	}
	if rows < 1 {
		rows = lobby.DefaultRows
	}
	if cols < 1 {
		cols = lobby.DefaultCols
	}

	frame := wave.Render(rows, cols, c.Int("offset"))
	frame = strings.Replace(frame, wave.ColorToken, wave.PaletteColor(c.Int("offset")), 1)
	fmt.Println(frame)
	return nil
}
