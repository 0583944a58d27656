package store

import (
	"maps"
	"sync"
	"time"
)

// ModalState describes what the modal shell should render.
type ModalState struct {
	Name  string
	Props map[string]any
	Open  bool
}

// ModalHost decouples modal content from the shell that renders it.
type ModalHost struct {
	closeDelay time.Duration
	clear      *deferred

	mu    sync.Mutex
	state ModalState

	changes notifier[ModalState]
}

func NewModalHost(opts ...Option) *ModalHost {
	o := buildOptions(opts)
	return &ModalHost{
		closeDelay: o.modalDelay,
		clear:      newDeferred(o.after),
		state:      ModalState{Props: map[string]any{}},
	}
}

func (h *ModalHost) State() ModalState {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.copyLocked()
}

func (h *ModalHost) Subscribe(fn func(ModalState)) (unsubscribe func()) {
	return h.changes.subscribe(fn)
}

// Open shows the named content with props, cancelling any pending clear.
func (h *ModalHost) Open(name string, props map[string]any) {
	h.clear.cancel()
	h.mutate(func(st *ModalState) {
		st.Name = name
		st.Props = maps.Clone(props)
		if st.Props == nil {
			st.Props = map[string]any{}
		}
		st.Open = true
	})
}

// Close hides the modal now and drops its content after the close delay,
// unless it was reopened meanwhile.
func (h *ModalHost) Close() {
	h.mutate(func(st *ModalState) { st.Open = false })
	h.clear.schedule(h.closeDelay, func() {
		h.mu.Lock()
		if h.state.Open {
			h.mu.Unlock()
			return
		}
		h.state.Name = ""
		h.state.Props = map[string]any{}
		snapshot := h.copyLocked()
		h.mu.Unlock()
		h.changes.notify(snapshot)
	})
}

func (h *ModalHost) mutate(fn func(*ModalState)) {
	h.mu.Lock()
	fn(&h.state)
	snapshot := h.copyLocked()
	h.mu.Unlock()
	h.changes.notify(snapshot)
}

func (h *ModalHost) copyLocked() ModalState {
	st := h.state
	st.Props = maps.Clone(h.state.Props)
	return st
}
