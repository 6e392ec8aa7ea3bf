package render

import (
	"bytes"
	"encoding/base64"
	"image/color"
	"image/png"
	"testing"

	"github.com/ironsheep/string-art-mcp/internal/engine"
	"github.com/ironsheep/string-art-mcp/internal/nails"
	"github.com/stretchr/testify/require"
)

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		input   string
		want    color.RGBA
		wantErr bool
	}{
		{"#FF0000", color.RGBA{255, 0, 0, 255}, false},
		{"00FF00", color.RGBA{0, 255, 0, 255}, false},
		{"#0000FF80", color.RGBA{0, 0, 255, 128}, false},
		{"", color.RGBA{}, true},
		{"#FFF", color.RGBA{}, true},
		{"#GGGGGG", color.RGBA{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseHexColor(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestRender_DrawsSegments(t *testing.T) {
	layout := nails.NewCircular(100, 100, 50)
	threads := []Thread{{Sequence: []int{0, 25}, Color: "#000000", Opacity: 1}}

	img, segments, err := Render(layout, threads, PreviewOptions{Scale: 1, StrokeWidth: 2})
	require.NoError(t, err)
	require.Equal(t, 1, segments)
	require.Equal(t, 100, img.Bounds().Dx())

	// The segment runs along y=50 from x=90 to x=10.
	onLine := img.RGBAAt(50, 50)
	require.Less(t, int(onLine.R), 100)
	require.Equal(t, color.RGBA{255, 255, 255, 255}, img.RGBAAt(50, 10))
	require.Equal(t, color.RGBA{255, 255, 255, 255}, img.RGBAAt(50, 90))
}

func TestRender_OverlapsDarken(t *testing.T) {
	layout := nails.NewCircular(100, 100, 50)
	once := []Thread{{Sequence: []int{0, 25}, Color: "#000000", Opacity: 0.3}}
	twice := []Thread{{Sequence: []int{0, 25, 0}, Color: "#000000", Opacity: 0.3}}

	a, _, err := Render(layout, once, PreviewOptions{Scale: 1, StrokeWidth: 2})
	require.NoError(t, err)
	b, _, err := Render(layout, twice, PreviewOptions{Scale: 1, StrokeWidth: 2})
	require.NoError(t, err)

	require.Less(t, b.RGBAAt(50, 50).R, a.RGBAAt(50, 50).R)
}

func TestRender_Options(t *testing.T) {
	layout := nails.NewCircular(60, 40, 50)

	img, _, err := Render(layout, nil, PreviewOptions{})
	require.NoError(t, err)
	require.Equal(t, 120, img.Bounds().Dx())
	require.Equal(t, 80, img.Bounds().Dy())

	img, _, err = Render(layout, nil, PreviewOptions{Scale: 1, Background: "#102030"})
	require.NoError(t, err)
	require.Equal(t, color.RGBA{0x10, 0x20, 0x30, 255}, img.RGBAAt(5, 5))

	_, _, err = Render(layout, nil, PreviewOptions{Scale: 20})
	require.Error(t, err)
	_, _, err = Render(layout, nil, PreviewOptions{Background: "red"})
	require.Error(t, err)
	_, _, err = Render(layout, []Thread{{Sequence: []int{0, 1}, Color: "blue"}}, PreviewOptions{})
	require.Error(t, err)
	_, _, err = Render(nil, nil, PreviewOptions{})
	require.Error(t, err)
}

func TestRender_PixelBudget(t *testing.T) {
	layout := nails.NewCircular(2048, 2048, 50)
	_, _, err := Render(layout, GrayThreads([]int{0, 25}), PreviewOptions{Scale: 8})
	require.ErrorContains(t, err, "exceeds")

	// The same layout fits at scale 1.
	img, _, err := Render(layout, GrayThreads([]int{0, 25}), PreviewOptions{Scale: 1})
	require.NoError(t, err)
	require.Equal(t, 2048, img.Bounds().Dx())
}

func TestRender_ShowNails(t *testing.T) {
	layout := nails.NewCircular(100, 100, 50)
	img, _, err := Render(layout, nil, PreviewOptions{Scale: 1, ShowNails: true})
	require.NoError(t, err)
	require.Equal(t, color.RGBA{153, 153, 153, 255}, img.RGBAAt(90, 50))
}

func TestRender_LabelEvery(t *testing.T) {
	layout := nails.NewCircular(200, 200, 50)
	img, _, err := Render(layout, nil, PreviewOptions{Scale: 2, LabelEvery: 10})
	require.NoError(t, err)

	// Nail 0 sits at (190, 100); its label is pushed outward to the right edge.
	inked := 0
	for y := 185; y < 215; y++ {
		for x := 370; x < 400; x++ {
			if img.RGBAAt(x, y) != (color.RGBA{255, 255, 255, 255}) {
				inked++
			}
		}
	}
	require.Positive(t, inked)

	// The middle of the canvas carries no label.
	require.Equal(t, color.RGBA{255, 255, 255, 255}, img.RGBAAt(200, 200))
}

func TestRenderPreview(t *testing.T) {
	layout := nails.NewCircular(100, 100, 50)
	result, err := RenderPreview(layout, GrayThreads([]int{0, 25, 12, 60, 37}), PreviewOptions{Scale: 1})
	require.NoError(t, err)

	require.Equal(t, "image/png", result.MimeType)
	require.Equal(t, 100, result.Width)
	require.Equal(t, 100, result.Height)
	// 12-60 and 60-37 reference a nail that does not exist.
	require.Equal(t, 2, result.Segments)

	raw, err := base64.StdEncoding.DecodeString(result.ImageBase64)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	require.Equal(t, 100, img.Bounds().Dx())
}

func TestColorThreads(t *testing.T) {
	order, err := engine.ParseColorOrder("KCMY")
	require.NoError(t, err)

	threads := ColorThreads(testColorSequences(), order)
	require.Len(t, threads, 3)
	require.Equal(t, "#000000", threads[0].Color)
	require.Equal(t, "#00FFFF", threads[1].Color)
	require.Equal(t, "#FF00FF", threads[2].Color)

	require.Len(t, ColorThreads(testColorSequences(), nil), 3)
	require.Equal(t, "#00FFFF", ColorThreads(testColorSequences(), nil)[0].Color)
}
