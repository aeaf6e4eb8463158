package input

import "sync"

// Action represents a logical scene action, not a physical key
type Action int

const (
	ActionOrbitLeft Action = iota
	ActionOrbitRight
	ActionOrbitUp
	ActionOrbitDown
	ActionZoomIn
	ActionZoomOut
	ActionResetCamera
	ActionToggleProfiling
	ActionDrag
	ActionCount // Sentinel value for array sizing
)

// Key is a window-system key or mouse button code.
// The window adapter decides the numbering; the manager only maps codes to actions.
type Key int

// ButtonState is the press state delivered by the window system
type ButtonState int

const (
	Released ButtonState = iota
	Pressed
	Repeated
)

// InputManager tracks held and edge-triggered actions for the orbit controls
type InputManager struct {
	mu sync.RWMutex

	// One key can map to multiple actions
	keyToActions    map[Key][]Action
	buttonToActions map[Key][]Action

	currentState [ActionCount]bool
	prevState    [ActionCount]bool

	// Reset each frame by PostUpdate
	justPressed  [ActionCount]bool
	justReleased [ActionCount]bool
}

// NewInputManager creates an InputManager with no bindings
func NewInputManager() *InputManager {
	return &InputManager{
		keyToActions:    make(map[Key][]Action),
		buttonToActions: make(map[Key][]Action),
	}
}

// BindKey binds a physical key to a logical action
func (im *InputManager) BindKey(key Key, action Action) {
	if action < 0 || action >= ActionCount {
		return
	}
	im.mu.Lock()
	defer im.mu.Unlock()
	im.keyToActions[key] = append(im.keyToActions[key], action)
}

// UnbindKey removes all action bindings for a key
func (im *InputManager) UnbindKey(key Key) {
	im.mu.Lock()
	defer im.mu.Unlock()
	delete(im.keyToActions, key)
}

// BindMouseButton binds a pointer button to a logical action
func (im *InputManager) BindMouseButton(button Key, action Action) {
	if action < 0 || action >= ActionCount {
		return
	}
	im.mu.Lock()
	defer im.mu.Unlock()
	im.buttonToActions[button] = append(im.buttonToActions[button], action)
}

// HandleKeyEvent records a key transition. Safe to call from window callbacks.
func (im *InputManager) HandleKeyEvent(key Key, state ButtonState) {
	im.apply(im.keyToActions, key, state == Pressed || state == Repeated)
}

// HandleMouseButtonEvent records a pointer button transition
func (im *InputManager) HandleMouseButtonEvent(button Key, state ButtonState) {
	im.apply(im.buttonToActions, button, state == Pressed)
}

func (im *InputManager) apply(bindings map[Key][]Action, code Key, isPressed bool) {
	im.mu.Lock()
	defer im.mu.Unlock()

	for _, act := range bindings[code] {
		// Detect edges immediately when the event arrives
		if isPressed && !im.currentState[act] {
			im.justPressed[act] = true
		}
		if !isPressed && im.currentState[act] {
			im.justReleased[act] = true
		}
		im.currentState[act] = isPressed
	}
}

// PostUpdate clears edge flags. Call once at the end of every host frame.
func (im *InputManager) PostUpdate() {
	im.mu.Lock()
	defer im.mu.Unlock()

	for i := range ActionCount {
		im.justPressed[i] = false
		im.justReleased[i] = false
		im.prevState[i] = im.currentState[i]
	}
}

// IsActive returns true if the action is currently held
func (im *InputManager) IsActive(action Action) bool {
	if action < 0 || action >= ActionCount {
		return false
	}
	im.mu.RLock()
	defer im.mu.RUnlock()
	return im.currentState[action]
}

// JustPressed returns true only if the action was pressed in the current frame
func (im *InputManager) JustPressed(action Action) bool {
	if action < 0 || action >= ActionCount {
		return false
	}
	im.mu.RLock()
	defer im.mu.RUnlock()
	return im.justPressed[action]
}

// JustReleased returns true only if the action was released in the current frame
func (im *InputManager) JustReleased(action Action) bool {
	if action < 0 || action >= ActionCount {
		return false
	}
	im.mu.RLock()
	defer im.mu.RUnlock()
	return im.justReleased[action]
}
