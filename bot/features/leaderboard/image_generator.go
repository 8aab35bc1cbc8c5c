package leaderboard

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"guildledger/domain/utils"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
)

// Row is one ranked member on the scoreboard
type Row struct {
	Rank    int
	Name    string
	Balance int64
}

type column struct {
	header string
	x      float64
	rgb    [3]float64
}

// TableStyle defines the visual style of the scoreboard
type TableStyle struct {
	Width     int
	MinHeight int
	Padding   int
	RowHeight int
	HeaderY   float64
}

// ImageGenerator draws the guild balance scoreboard
type ImageGenerator struct {
	style TableStyle
}

// NewImageGenerator creates a generator with the default style
func NewImageGenerator() *ImageGenerator {
	return &ImageGenerator{
		style: TableStyle{
			Width:     340,
			MinHeight: 120,
			Padding:   15,
			RowHeight: 26,
			HeaderY:   25,
		},
	}
}

// Generate renders rows as a PNG scoreboard
func (g *ImageGenerator) Generate(rows []Row) ([]byte, error) {
	pad := float64(g.style.Padding)
	columns := []column{
		{header: "#", x: pad, rgb: [3]float64{0.85, 0.85, 0.9}},
		{header: "Member", x: pad + 30, rgb: [3]float64{1, 1, 1}},
		{header: "Balance", x: pad + 220, rgb: [3]float64{0.85, 1, 0.85}},
	}

	height := int(g.style.HeaderY) + 30 + len(rows)*g.style.RowHeight
	height = max(height, g.style.MinHeight)

	dc := gg.NewContext(g.style.Width, height)
	drawBackground(dc, g.style.Width, height)

	face, err := loadFont(gomono.TTF, 12)
	if err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}
	rankFace, err := loadFont(gobold.TTF, 9)
	if err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}
	dc.SetFontFace(face)

	y := g.style.HeaderY
	dc.SetRGBA(0.3, 0.3, 0.4, 0.4)
	dc.DrawRectangle(0, y-15, float64(g.style.Width), 20)
	dc.Fill()

	dc.SetRGB(1, 1, 1)
	for _, col := range columns {
		drawSharpText(dc, col.header, col.x, y)
	}

	dc.SetRGBA(0.6, 0.6, 0.7, 0.7)
	dc.SetLineWidth(1)
	dc.DrawLine(0, y+8, float64(g.style.Width), y+8)
	dc.Stroke()

	y += 30
	for i, row := range rows {
		top := y - 15
		if c, ok := podiumColor(i); ok {
			dc.SetRGBA(c[0], c[1], c[2], 0.1)
		} else {
			dc.SetRGBA(0.5, 0.5, 0.6, 0.02)
		}
		dc.DrawRectangle(0, top, float64(g.style.Width), float64(g.style.RowHeight))
		dc.Fill()

		if c, ok := podiumColor(i); ok {
			dc.SetRGB(c[0], c[1], c[2])
			dc.DrawCircle(pad+4, y-4, 7)
			dc.Fill()
			dc.SetRGB(0, 0, 0)
			dc.SetFontFace(rankFace)
			dc.DrawStringAnchored(fmt.Sprintf("%d", row.Rank), pad+4, y-5, 0.5, 0.4)
			dc.SetFontFace(face)
		} else {
			rgb := columns[0].rgb
			dc.SetRGB(rgb[0], rgb[1], rgb[2])
			drawSharpText(dc, fmt.Sprintf("%d", row.Rank), columns[0].x, y)
		}

		rgb := columns[1].rgb
		dc.SetRGB(rgb[0], rgb[1], rgb[2])
		drawSharpText(dc, truncate(row.Name, 22), columns[1].x, y)

		rgb = columns[2].rgb
		dc.SetRGB(rgb[0], rgb[1], rgb[2])
		drawSharpText(dc, utils.FormatShortNotation(row.Balance), columns[2].x, y)

		y += float64(g.style.RowHeight)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// podiumColor is gold, silver and bronze for the first three rows
func podiumColor(i int) ([3]float64, bool) {
	switch i {
	case 0:
		return [3]float64{1, 0.84, 0}, true
	case 1:
		return [3]float64{0.75, 0.75, 0.75}, true
	case 2:
		return [3]float64{0.8, 0.5, 0.2}, true
	}
	return [3]float64{}, false
}

func drawBackground(dc *gg.Context, width, height int) {
	for y := 0; y < height; y++ {
		t := float64(y) / float64(height)
		r, g, b := 0.02+t*0.03, 0.02+t*0.05, 0.05+t*0.1
		for x := 0; x < width; x++ {
			noise := (float64((x*y)%7) - 3.5) / 255.0
			dc.SetRGB(r+noise, g+noise, b+noise)
			dc.SetPixel(x, y)
		}
	}
}

func truncate(name string, limit int) string {
	if utf8.RuneCountInString(name) <= limit {
		return name
	}
	runes := []rune(name)
	return string(runes[:limit-1]) + "…"
}

// drawSharpText draws text over a faint offset shadow
func drawSharpText(dc *gg.Context, text string, x, y float64) {
	dc.Push()
	dc.SetRGBA(0, 0, 0, 0.5)
	dc.DrawString(text, x+0.5, y+0.5)
	dc.Pop()

	dc.DrawString(text, x, y)
}

// loadFont loads a font from byte data
func loadFont(fontData []byte, size float64) (font.Face, error) {
	f, err := truetype.Parse(fontData)
	if err != nil {
		return nil, err
	}
	return truetype.NewFace(f, &truetype.Options{
		Size:       size,
		DPI:        72,
		Hinting:    font.HintingFull,
		SubPixelsX: 4,
		SubPixelsY: 4,
	}), nil
}
