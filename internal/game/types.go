package game

import (
	"chosenoffset.com/pixelescape/internal/core/shadows"
)

// Player is the single viewer: a circle that moves with WASD (Shift to sprint)
// and faces the cursor.
type Player struct {
	Pose   shadows.Pose
	Speed  float64 // world units per tick
	Radius float64 // collision radius
}

// Default player tuning.
const (
	DefaultPlayerSpeed  = 5.0
	DefaultPlayerRadius = 15.0
	SprintMultiplier    = 1.6 // Applied to Speed while Shift is held
)

// Message represents an on-screen message that fades over time.
type Message struct {
	Text     string
	TimeLeft float64 // Seconds remaining
	MaxTime  float64 // Initial duration
}
