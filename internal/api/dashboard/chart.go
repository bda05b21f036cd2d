package dashboard

import (
	"bytes"
	"image/png"
	"strconv"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"bodyfat/internal/domain/importance"
	"bodyfat/pkg/errors"
)

const (
	chartWidth    = 600
	chartHeight   = 400
	chartTitle    = "Impact of Your Metrics"
	chartBarColor = "#38bdf8"
	chartBgColor  = "#0f172a"
	chartFgColor  = "#e2e8f0"
	chartGrid     = "#334155"

	marginLeft   = 90.0
	marginRight  = 60.0
	marginTop    = 50.0
	marginBottom = 20.0
)

var (
	fontOnce sync.Once
	fontTT   *truetype.Font
	fontErr  error
)

func loadFace(size float64) (font.Face, error) {
	fontOnce.Do(func() {
		fontTT, fontErr = truetype.Parse(goregular.TTF)
	})
	if fontErr != nil {
		return nil, errors.Wrap(fontErr, "parse chart font")
	}
	return truetype.NewFace(fontTT, &truetype.Options{Size: size}), nil
}

// RenderImportanceChart draws items as a horizontal bar chart, first item at the
// bottom so the most important feature ends up on top.
func RenderImportanceChart(items []importance.Item) ([]byte, error) {
	dc := gg.NewContext(chartWidth, chartHeight)

	dc.SetHexColor(chartBgColor)
	dc.Clear()

	titleFace, err := loadFace(18)
	if err != nil {
		return nil, err
	}
	labelFace, err := loadFace(12)
	if err != nil {
		return nil, err
	}

	dc.SetFontFace(titleFace)
	dc.SetHexColor(chartFgColor)
	dc.DrawStringAnchored(chartTitle, chartWidth/2, marginTop/2, 0.5, 0.5)

	if len(items) == 0 {
		return encodePNG(dc)
	}

	maxWeight := 0.0
	for _, it := range items {
		if it.Weight > maxWeight {
			maxWeight = it.Weight
		}
	}
	if maxWeight <= 0 {
		maxWeight = 1
	}

	plotW := chartWidth - marginLeft - marginRight
	plotH := chartHeight - marginTop - marginBottom
	slot := plotH / float64(len(items))
	barH := slot * 0.7

	dc.SetHexColor(chartGrid)
	dc.SetLineWidth(1)
	dc.DrawLine(marginLeft, marginTop, marginLeft, marginTop+plotH)
	dc.Stroke()

	dc.SetFontFace(labelFace)
	for i, it := range items {
		// ascending order: index 0 sits at the bottom
		y := marginTop + plotH - float64(i+1)*slot + (slot-barH)/2
		w := plotW * clamp(it.Weight/maxWeight)

		dc.SetHexColor(chartBarColor)
		dc.DrawRectangle(marginLeft, y, w, barH)
		dc.Fill()

		dc.SetHexColor(chartFgColor)
		dc.DrawStringAnchored(it.Feature, marginLeft-8, y+barH/2, 1, 0.5)
		dc.DrawStringAnchored(strconv.FormatFloat(it.Weight, 'f', 3, 64), marginLeft+w+6, y+barH/2, 0, 0.5)
	}

	return encodePNG(dc)
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func encodePNG(dc *gg.Context) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, dc.Image()); err != nil {
		return nil, errors.Wrap(err, "encode chart")
	}
	return buf.Bytes(), nil
}
