// palettegen writes a palette file for clusterviz: n colors spread evenly
// over the RGB cube, one hex color per row.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/lucasb-eyer/go-colorful"
)

func main() {
	n := flag.Int("n", 8000, "number of colors")
	out := flag.String("o", "color.csv", "output file")
	flag.Parse()

	if *n <= 0 {
		fmt.Fprintln(os.Stderr, "palettegen: -n must be positive")
		os.Exit(2)
	}

	f, err := os.Create(*out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "palettegen: %v\n", err)
		os.Exit(1)
	}
	if err := writePalette(f, generate(*n)); err != nil {
		f.Close()
		fmt.Fprintf(os.Stderr, "palettegen: %v\n", err)
		os.Exit(1)
	}
	if err := f.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "palettegen: %v\n", err)
		os.Exit(1)
	}
}

// gridStep is the channel spacing that fits roughly n colors into the
// 256³ cube.
func gridStep(n int) int {
	step := int(math.Cbrt(256*256*256) / math.Cbrt(float64(n)))
	if step < 1 {
		step = 1
	}
	return step
}

// generate walks the grid in r, g, b order and keeps the first n colors.
func generate(n int) []colorful.Color {
	step := gridStep(n)
	colors := make([]colorful.Color, 0, n)
	for r := 0; r < 256; r += step {
		for g := 0; g < 256; g += step {
			for b := 0; b < 256; b += step {
				if len(colors) >= n {
					return colors
				}
				colors = append(colors, colorful.Color{
					R: float64(r) / 255,
					G: float64(g) / 255,
					B: float64(b) / 255,
				})
			}
		}
	}
	return colors
}

func writePalette(w io.Writer, colors []colorful.Color) error {
	cw := csv.NewWriter(w)
	for _, c := range colors {
		if err := cw.Write([]string{c.Hex()}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
