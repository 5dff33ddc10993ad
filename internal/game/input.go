package game

import (
	"unicode"

	"github.com/gdamore/tcell/v2"
	"github.com/sasha-s/go-deadlock"
)

// Action represents a logical action, not a physical key.
type Action int

const (
	ActionMoveUp Action = iota
	ActionMoveDown
	ActionMoveLeft
	ActionMoveRight
	ActionToggleMode
	ActionBrush1
	ActionBrush2
	ActionBrush3
	ActionReseed
	ActionRadiusUp
	ActionRadiusDown
	ActionQuit
	ActionPointer
	ActionCount // Sentinel value for array sizing
)

// Frame is the input gathered between two ticks.
type Frame struct {
	presses      [ActionCount]int
	held         [ActionCount]bool
	pointerX     int
	pointerY     int
	pointerOK    bool
	dragX, dragY int // Pointer movement in cells while ActionPointer was held
	resized      bool
	closed       bool
}

// Pressed returns how many times a was triggered during the frame.
func (f Frame) Pressed(a Action) int {
	if a < 0 || a >= ActionCount {
		return 0
	}
	return f.presses[a]
}

// JustPressed returns true if a was triggered at least once during the frame.
func (f Frame) JustPressed(a Action) bool {
	return f.Pressed(a) > 0
}

// IsActive returns true if a is held at the end of the frame.
func (f Frame) IsActive(a Action) bool {
	if a < 0 || a >= ActionCount {
		return false
	}
	return f.held[a]
}

// Pointer returns the last known pointer cell.
func (f Frame) Pointer() (x, y int, ok bool) {
	return f.pointerX, f.pointerY, f.pointerOK
}

// Drag returns the pointer movement in cells while the pointer button was held.
func (f Frame) Drag() (dx, dy int) {
	return f.dragX, f.dragY
}

// InputManager maps terminal events to logical actions. Events arrive on
// the polling goroutine and are collected into frames by the tick loop.
type InputManager struct {
	mu deadlock.Mutex

	keyToActions         map[tcell.Key][]Action
	runeToActions        map[rune][]Action
	mouseButtonToActions map[tcell.ButtonMask][]Action

	frame Frame
}

// NewInputManager creates an InputManager with the default bindings.
func NewInputManager() *InputManager {
	im := &InputManager{
		keyToActions:         make(map[tcell.Key][]Action),
		runeToActions:        make(map[rune][]Action),
		mouseButtonToActions: make(map[tcell.ButtonMask][]Action),
	}

	im.BindKey(tcell.KeyUp, ActionMoveUp)
	im.BindKey(tcell.KeyDown, ActionMoveDown)
	im.BindKey(tcell.KeyLeft, ActionMoveLeft)
	im.BindKey(tcell.KeyRight, ActionMoveRight)
	im.BindRune('w', ActionMoveUp)
	im.BindRune('s', ActionMoveDown)
	im.BindRune('a', ActionMoveLeft)
	im.BindRune('d', ActionMoveRight)

	im.BindRune('p', ActionToggleMode)
	im.BindKey(tcell.KeyTab, ActionToggleMode)
	im.BindRune('1', ActionBrush1)
	im.BindRune('2', ActionBrush2)
	im.BindRune('3', ActionBrush3)

	im.BindRune('r', ActionReseed)
	im.BindRune('+', ActionRadiusUp)
	im.BindRune('=', ActionRadiusUp)
	im.BindRune('-', ActionRadiusDown)

	im.BindRune('q', ActionQuit)
	im.BindKey(tcell.KeyEscape, ActionQuit)
	im.BindKey(tcell.KeyCtrlC, ActionQuit)

	im.BindMouseButton(tcell.Button1, ActionPointer)

	return im
}

// BindKey binds a special key to a logical action.
func (im *InputManager) BindKey(key tcell.Key, action Action) {
	im.mu.Lock()
	defer im.mu.Unlock()

	if action < 0 || action >= ActionCount {
		return
	}
	im.keyToActions[key] = append(im.keyToActions[key], action)
}

// BindRune binds a character key to a logical action. Letters match either case.
func (im *InputManager) BindRune(r rune, action Action) {
	im.mu.Lock()
	defer im.mu.Unlock()

	if action < 0 || action >= ActionCount {
		return
	}
	r = unicode.ToLower(r)
	im.runeToActions[r] = append(im.runeToActions[r], action)
}

// BindMouseButton binds a mouse button to a logical action.
func (im *InputManager) BindMouseButton(button tcell.ButtonMask, action Action) {
	im.mu.Lock()
	defer im.mu.Unlock()

	if action < 0 || action >= ActionCount {
		return
	}
	im.mouseButtonToActions[button] = append(im.mouseButtonToActions[button], action)
}

// HandleEvent records a terminal event. A nil event means the screen closed.
func (im *InputManager) HandleEvent(ev tcell.Event) {
	im.mu.Lock()
	defer im.mu.Unlock()

	switch ev := ev.(type) {
	case nil:
		im.frame.closed = true
	case *tcell.EventKey:
		im.handleKey(ev)
	case *tcell.EventMouse:
		im.handleMouse(ev)
	case *tcell.EventResize:
		im.frame.resized = true
	}
}

func (im *InputManager) handleKey(ev *tcell.EventKey) {
	var actions []Action
	if ev.Key() == tcell.KeyRune {
		actions = im.runeToActions[unicode.ToLower(ev.Rune())]
	} else {
		actions = im.keyToActions[ev.Key()]
	}
	for _, act := range actions {
		im.frame.presses[act]++
	}
}

func (im *InputManager) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	buttons := ev.Buttons()

	for button, actions := range im.mouseButtonToActions {
		pressed := buttons&button != 0
		for _, act := range actions {
			if pressed && !im.frame.held[act] {
				im.frame.presses[act]++
			}
			if pressed && im.frame.held[act] && im.frame.pointerOK && act == ActionPointer {
				im.frame.dragX += x - im.frame.pointerX
				im.frame.dragY += y - im.frame.pointerY
			}
			im.frame.held[act] = pressed
		}
	}

	im.frame.pointerX, im.frame.pointerY = x, y
	im.frame.pointerOK = true
}

// Frame returns the input collected since the previous call and starts a new
// frame. Held buttons and the pointer position carry over.
func (im *InputManager) Frame() Frame {
	im.mu.Lock()
	defer im.mu.Unlock()

	f := im.frame
	im.frame = Frame{
		held:      f.held,
		pointerX:  f.pointerX,
		pointerY:  f.pointerY,
		pointerOK: f.pointerOK,
		closed:    f.closed,
	}
	return f
}
