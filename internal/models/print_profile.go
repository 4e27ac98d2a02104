package models

// Paper sizes and page orientations understood by the print templates.
const (
	PaperA4 = "A4"

	OrientationPortrait  = "portrait"
	OrientationLandscape = "landscape"
)

// MarginMm is a page margin set in millimetres.
type MarginMm struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// OffsetMm is the print-head calibration offset in millimetres.
type OffsetMm struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// PrintProfile stores per-template print calibration. A nil ClassID marks
// the global profile for that template; a class-scoped profile takes
// precedence over it.
type PrintProfile struct {
	ID          string   `json:"id"`
	ClassID     *string  `json:"classId"`
	TemplateID  string   `json:"templateId"`
	Paper       string   `json:"paper"`
	Orientation string   `json:"orientation"`
	MarginMm    MarginMm `json:"marginMm"`
	OffsetMm    OffsetMm `json:"offsetMm"`
	FontScale   float64  `json:"fontScale"`
	UpdatedAt   int64    `json:"updatedAt"`
}

// DefaultPrintProfile returns the profile persisted when neither a
// class-scoped nor a global profile exists for a template.
func DefaultPrintProfile(templateID string, now int64) PrintProfile {
	return PrintProfile{
		ID:          NewPrintProfileID(),
		ClassID:     nil,
		TemplateID:  templateID,
		Paper:       PaperA4,
		Orientation: OrientationPortrait,
		MarginMm:    MarginMm{},
		OffsetMm:    OffsetMm{},
		FontScale:   1.0,
		UpdatedAt:   now,
	}
}
