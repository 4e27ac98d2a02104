package templates

import (
	"fmt"

	"github.com/dayoon-dev/homeroom-api/internal/models"
)

// printTestRulerTemplate is the printer calibration page: 100 mm reference
// rulers with 10 mm ticks and corner marks. Measuring the printed lines and
// adjusting offsetMm until they land where drawn dials in the profile.
func printTestRulerTemplate() Template {
	return Template{
		ID:          "print_test_ruler",
		Name:        "프린터 보정 테스트",
		Description: "10cm 기준선/눈금으로 프린터 정확도 확인",
		Paper:       models.PaperA4,
		Orientation: models.OrientationPortrait,
		Render:      renderPrintTestRuler,
	}
}

func renderPrintTestRuler(doc *Doc, ctx RenderContext) error {
	off := ctx.Profile.OffsetMm

	doc.SetFont("B", 14)
	doc.Text(80, 15, "프린터 보정 테스트")

	doc.SetFont("", 10)
	doc.Text(20, 25, "가로/세로 기준선이 정확히 100mm로 인쇄되는지 자로 확인하세요.")
	doc.Text(20, 31, fmt.Sprintf("현재 보정 오프셋: x=%.1fmm, y=%.1fmm", off.X, off.Y))

	// Horizontal 100 mm ruler at y=60, ticks every 10 mm.
	doc.SetLineWidth(0.5)
	doc.Line(20, 60, 120, 60)
	doc.SetLineWidth(0.2)
	doc.SetFont("", 7)
	for mm := 0; mm <= 100; mm += 10 {
		x := 20 + float64(mm)
		doc.Line(x, 57, x, 60)
		doc.Text(x-2, 55, fmt.Sprintf("%d", mm))
	}

	// Vertical 100 mm ruler at x=20, ticks every 10 mm.
	doc.SetLineWidth(0.5)
	doc.Line(20, 80, 20, 180)
	doc.SetLineWidth(0.2)
	for mm := 0; mm <= 100; mm += 10 {
		y := 80 + float64(mm)
		doc.Line(20, y, 23, y)
		doc.Text(25, y+1, fmt.Sprintf("%d", mm))
	}

	// Corner marks 10 mm from each paper edge.
	doc.SetLineWidth(0.3)
	corners := [][4]float64{
		{10, 10, 20, 10}, {10, 10, 10, 20},
		{200, 10, 190, 10}, {200, 10, 200, 20},
		{10, 287, 20, 287}, {10, 287, 10, 277},
		{200, 287, 190, 287}, {200, 287, 200, 277},
	}
	for _, c := range corners {
		doc.Line(c[0], c[1], c[2], c[3])
	}
	return nil
}
