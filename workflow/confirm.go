package workflow

// ConfirmGate is the binary confirm/cancel gate placed in front of every
// destructive action. Arming it records what is about to be deleted; nothing
// touches the backend until Confirm.
type ConfirmGate struct {
	open     bool
	message  string
	entityID int
}

// Arm opens the gate for the given entity
func (g *ConfirmGate) Arm(message string, entityID int) {
	g.open = true
	g.message = message
	g.entityID = entityID
}

// Confirm closes the gate and returns the armed entity id. The second return
// is false when the gate was not open.
func (g *ConfirmGate) Confirm() (int, bool) {
	if !g.open {
		return 0, false
	}
	id := g.entityID
	g.reset()
	return id, true
}

// Close dismisses the gate without confirming
func (g *ConfirmGate) Close() {
	g.reset()
}

// IsOpen reports whether the gate is currently armed
func (g *ConfirmGate) IsOpen() bool {
	return g.open
}

// Message returns the confirmation prompt for the armed entity
func (g *ConfirmGate) Message() string {
	return g.message
}

// EntityID returns the armed entity id (0 when closed)
func (g *ConfirmGate) EntityID() int {
	return g.entityID
}

func (g *ConfirmGate) reset() {
	g.open = false
	g.message = ""
	g.entityID = 0
}
