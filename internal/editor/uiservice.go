package editor

import "sync"

// CursorStyle is the global pointer cursor forced during gestures.
type CursorStyle string

const (
	CursorDefault    CursorStyle = ""
	CursorGrabbing   CursorStyle = "grabbing"
	CursorColResize  CursorStyle = "col-resize"
	CursorNotAllowed CursorStyle = "not-allowed"
)

// UIService is the imperative side channel outside the data-flow
// store: one instance owned by the application shell controls the
// global cursor and the task popover. Injected where needed instead of
// being reached through the state cell.
type UIService struct {
	mu          sync.Mutex
	cursor      CursorStyle
	popoverOpen bool
}

func NewUIService() *UIService {
	return &UIService{}
}

func (u *UIService) SetCursor(c CursorStyle) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.cursor = c
}

func (u *UIService) ResetCursor() {
	u.SetCursor(CursorDefault)
}

func (u *UIService) Cursor() CursorStyle {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.cursor
}

func (u *UIService) OpenTaskPopover() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.popoverOpen = true
}

func (u *UIService) CloseTaskPopover() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.popoverOpen = false
}

func (u *UIService) TaskPopoverOpen() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.popoverOpen
}
