package ecs

import (
	"github.com/phanxgames/gazekit"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// GazeEventType is the Donburi event type for gazekit gaze events.
// Events are queued on publish; systems receive them from ProcessEvents.
var GazeEventType = events.NewEventType[gazekit.GazeEvent]()

type donburiStore struct {
	world donburi.World
}

// NewDonburiStore creates an EventStore backed by a Donburi world.
// Gaze events are published to GazeEventType and can be consumed with
// Subscribe and ProcessEvents.
func NewDonburiStore(world donburi.World) gazekit.EventStore {
	return &donburiStore{world: world}
}

func (s *donburiStore) EmitEvent(event gazekit.GazeEvent) {
	GazeEventType.Publish(s.world, event)
}
