package ecs

import (
	"github.com/phanxgames/dragon"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// EngineEventType is the Donburi event type for dragon engine events.
var EngineEventType = events.NewEventType[dragon.Event]()

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates an EventSink backed by a Donburi world. Events are
// published to EngineEventType and can be consumed with events.Subscribe
// and ProcessEvents.
func NewDonburiSink(world donburi.World) dragon.EventSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) EmitEvent(event dragon.Event) {
	EngineEventType.Publish(s.world, event)
}
