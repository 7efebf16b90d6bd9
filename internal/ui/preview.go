package ui

import (
	"fmt"
	"image"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/image/draw"
)

// halfBlock paints the upper pixel with the foreground and the lower with the background
const halfBlock = "▀"

// RenderHalfBlocks draws img width cells wide. Each text row carries two pixel
// rows, which keeps the aspect ratio close to square on common terminal fonts.
// Mostly transparent pixels are left uncolored.
func RenderHalfBlocks(img image.Image, width int) string {
	if img == nil || width <= 0 {
		return ""
	}
	b := img.Bounds()
	if b.Empty() {
		return ""
	}

	height := max(b.Dy()*width/b.Dx(), 2)
	if height%2 == 1 {
		height++
	}

	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)

	var sb strings.Builder
	for y := 0; y < height; y += 2 {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for x := 0; x < width; x++ {
			style := lipgloss.NewStyle().
				Foreground(pixelColor(dst, x, y)).
				Background(pixelColor(dst, x, y+1))
			sb.WriteString(style.Render(halfBlock))
		}
	}
	return sb.String()
}

func pixelColor(img *image.NRGBA, x, y int) lipgloss.TerminalColor {
	c := img.NRGBAAt(x, y)
	if c.A < 128 {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
}

// RenderPreviewPlaceholder fills the preview area when no flag is available
func RenderPreviewPlaceholder(label string, width int) string {
	return lipgloss.NewStyle().
		Width(width - 2).
		Height(width / 4).
		Align(lipgloss.Center, lipgloss.Center).
		Border(lipgloss.NormalBorder()).
		BorderForeground(ColorTextDim).
		Foreground(ColorTextDim).
		Render(label)
}
