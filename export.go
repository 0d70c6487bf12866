package main

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strings"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
)

const (
	captionFontSize = 12.0
	captionPadding  = 8.0
)

// frameSnapshot is a copy of everything an export needs, taken on the UI
// goroutine so the encoding can run elsewhere.
type frameSnapshot struct {
	image  *image.RGBA
	lines  []string
	status Status
}

func snapshotFrame(surface *ggSurface, st *AppState) (*frameSnapshot, error) {
	if st.Dataset == nil {
		return nil, fmt.Errorf("nothing to export")
	}
	src := surface.Image()
	img := image.NewRGBA(src.Bounds())
	draw.Draw(img, img.Bounds(), src, src.Bounds().Min, draw.Src)
	return &frameSnapshot{image: img, lines: captionLines(st), status: st.Panel.Status}, nil
}

// writePNG writes the frame plus a caption band with the frame number,
// pass/fail status and info text.
func (f *frameSnapshot) writePNG(filename string) error {
	ttfFont, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return fmt.Errorf("failed to parse font: %v", err)
	}
	face := truetype.NewFace(ttfFont, &truetype.Options{
		Size:    captionFontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})

	lineHeight := captionFontSize * 1.4
	b := f.image.Bounds()
	width, height := b.Dx(), b.Dy()
	bandHeight := int(float64(len(f.lines))*lineHeight + 2*captionPadding)

	dc := gg.NewContext(width, height+bandHeight)
	dc.SetColor(color.White)
	dc.Clear()
	dc.DrawImage(f.image, 0, 0)

	dc.SetColor(statusColor(f.status))
	dc.DrawRectangle(0, float64(height), float64(width), float64(bandHeight))
	dc.Fill()

	dc.SetFontFace(face)
	dc.SetColor(color.Black)
	y := float64(height) + captionPadding + captionFontSize
	for _, line := range f.lines {
		dc.DrawString(line, captionPadding, y)
		y += lineHeight
	}

	return dc.SavePNG(filename)
}

func captionLines(st *AppState) []string {
	status := "FAIL"
	if st.Panel.Status == StatusPass {
		status = "PASS"
	}
	lines := []string{fmt.Sprintf("frame %d/%d  %s", st.Frame, st.MaxFrame, status)}
	for _, line := range strings.Split(extractTextFromHTML(st.Panel.Info), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func statusColor(s Status) color.Color {
	switch s {
	case StatusPass:
		return color.RGBA{R: 0xb3, G: 0xff, B: 0xca, A: 0xff}
	case StatusFail:
		return color.RGBA{R: 0xff, G: 0x89, B: 0x89, A: 0xff}
	}
	return color.White
}

func exportFilename(frame int) string {
	return fmt.Sprintf("frame_%04d.png", frame)
}
