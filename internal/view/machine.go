package view

import (
	"github.com/juju/errors"
)

const ErrInvalidViewSelection = errors.ConstError("invalid view selection")

// Renderer draws a payload. Each call receives complete data.
type Renderer interface {
	Render(p Payload) error
}

type RendererFunc func(p Payload) error

func (f RendererFunc) Render(p Payload) error {
	return f(p)
}

// Machine tracks the current view and hands a payload to the renderer on
// every transition.
type Machine struct {
	catalogue []Definition
	index     int
	data      Data
	renderer  Renderer
}

type Option func(*Machine)

// WithCatalogue replaces the default catalogue. An empty catalogue is ignored.
func WithCatalogue(defs []Definition) Option {
	return func(m *Machine) {
		if len(defs) > 0 {
			m.catalogue = append([]Definition(nil), defs...)
		}
	}
}

func New(data Data, renderer Renderer, opts ...Option) *Machine {
	m := &Machine{
		catalogue: DefaultCatalogue(),
		data:      data,
		renderer:  renderer,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start renders the initial view without moving.
func (m *Machine) Start() error {
	return m.render()
}

// Advance moves to the next view, wrapping at the end.
func (m *Machine) Advance() error {
	m.index = (m.index + 1) % len(m.catalogue)
	return m.render()
}

// Retreat moves to the previous view, wrapping at the start.
func (m *Machine) Retreat() error {
	m.index = (m.index - 1 + len(m.catalogue)) % len(m.catalogue)
	return m.render()
}

// Select jumps to the view with the given id. Unknown ids leave the current
// view unchanged, render nothing and return ErrInvalidViewSelection.
func (m *Machine) Select(id ID) error {
	for i, def := range m.catalogue {
		if def.ID == id {
			m.index = i
			return m.render()
		}
	}
	return errors.Annotatef(ErrInvalidViewSelection, "view %q", id)
}

func (m *Machine) Index() int {
	return m.index
}

func (m *Machine) Current() Definition {
	return m.catalogue[m.index]
}

func (m *Machine) Catalogue() []Definition {
	return append([]Definition(nil), m.catalogue...)
}

// Payload builds the payload of the current view without rendering it.
func (m *Machine) Payload() Payload {
	return buildPayload(m.Current(), m.index, len(m.catalogue), m.data)
}

func (m *Machine) render() error {
	if m.renderer == nil {
		return nil
	}
	return errors.Trace(m.renderer.Render(m.Payload()))
}
