// Package transfer moves the whole store in and out of focuslens: JSON
// export/import documents and bulk CSV task ingestion.
package transfer

import (
	"log/slog"
	"math/rand"

	"github.com/balkashynov/focuslens/internal/db"
	"github.com/balkashynov/focuslens/internal/logging"
)

// DefaultPalette is the set of colors given to projects created by CSV import
var DefaultPalette = []string{
	"#FF9B42", // orange
	"#7CD8FF", // turquoise
	"#9BE7B3", // green
	"#FFE8A3", // yellow
}

// Engine imports and exports store contents
type Engine struct {
	store   *db.Store
	log     *slog.Logger
	palette []string
	pick    func(n int) int
}

// Option configures an Engine
type Option func(*Engine)

// WithLogger sets the logger used for import summaries and skipped records
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithPalette sets the colors for projects created by CSV import
func WithPalette(colors []string) Option {
	return func(e *Engine) {
		if len(colors) > 0 {
			e.palette = colors
		}
	}
}

// WithPicker replaces the random color choice
func WithPicker(pick func(n int) int) Option {
	return func(e *Engine) {
		e.pick = pick
	}
}

// New creates an Engine over store
func New(store *db.Store, opts ...Option) *Engine {
	e := &Engine{
		store:   store,
		log:     logging.Discard(),
		palette: DefaultPalette,
		pick:    rand.Intn,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Color picks a project color from the palette, falling back to the first
// default color when the palette is empty
func (e *Engine) Color() string {
	if len(e.palette) == 0 {
		return DefaultPalette[0]
	}
	return e.palette[e.pick(len(e.palette))]
}
