// Package templates registers the print layouts the tool can produce and
// renders them to PDF from a read-only context of class, roster, profile
// and per-template options.
package templates

import (
	"github.com/dayoon-dev/homeroom-api/internal/models"
)

// RenderContext is the read-only shape handed to every renderer.
type RenderContext struct {
	ClassInfo *models.ClassRoom      `json:"classInfo,omitempty"`
	Students  []models.Student       `json:"students"`
	Profile   models.PrintProfile    `json:"profile"`
	Options   map[string]interface{} `json:"options"`
}

// Option describes one template-specific knob shown in the print dialog.
type Option struct {
	ID      string        `json:"id"`
	Label   string        `json:"label"`
	Type    string        `json:"type"`
	Values  []interface{} `json:"values,omitempty"`
	Default interface{}   `json:"default"`
}

// Template is one registered print layout.
type Template struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Paper           string          `json:"paper"`
	Orientation     string          `json:"orientation"`
	DefaultMarginMm models.MarginMm `json:"defaultMarginMm"`
	Options         []Option        `json:"options"`
	Render          RenderFunc      `json:"-"`
}

// RenderFunc produces the PDF bytes for one template.
type RenderFunc func(doc *Doc, ctx RenderContext) error

// Registry holds every known template. Construct it once at startup; a
// non-empty fontPath points at a TTF used for CJK text.
type Registry struct {
	fontPath  string
	templates []Template
	byID      map[string]int
}

// NewRegistry builds the registry with the built-in templates.
func NewRegistry(fontPath string) *Registry {
	r := &Registry{fontPath: fontPath}
	r.register(attendanceLabelTemplate())
	r.register(rosterTableTemplate())
	r.register(printTestRulerTemplate())
	return r
}

func (r *Registry) register(t Template) {
	if r.byID == nil {
		r.byID = make(map[string]int)
	}
	r.byID[t.ID] = len(r.templates)
	r.templates = append(r.templates, t)
}

// All returns every registered template in registration order.
func (r *Registry) All() []Template {
	out := make([]Template, len(r.templates))
	copy(out, r.templates)
	return out
}

// Get returns the template with the given id.
func (r *Registry) Get(id string) (Template, bool) {
	i, ok := r.byID[id]
	if !ok {
		return Template{}, false
	}
	return r.templates[i], true
}

// Render produces the PDF for the template id from the given context.
func (r *Registry) Render(id string, ctx RenderContext) ([]byte, error) {
	t, ok := r.Get(id)
	if !ok {
		return nil, errUnknownTemplate(id)
	}
	doc := newDoc(t, ctx.Profile, r.fontPath)
	if err := t.Render(doc, ctx); err != nil {
		return nil, err
	}
	return doc.Output()
}

// optionInt reads a numeric option, tolerating the float64 that JSON
// decoding produces.
func optionInt(opts map[string]interface{}, key string, fallback int) int {
	v, ok := opts[key]
	if !ok {
		return fallback
	}
	switch n := v.(type) {
	case int:
		return n
	case float64:
		return int(n)
	default:
		return fallback
	}
}
