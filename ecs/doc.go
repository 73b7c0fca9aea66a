// Package ecs provides ECS adapters for dragon's engine events.
//
// The primary adapter is [NewDonburiSink], which bridges engine events
// (drag start, chain, snap, release, settle, diagnostic) into a [Donburi]
// world as typed events. Subscribe to [EngineEventType] in your ECS systems
// to receive them.
//
// Usage:
//
//	sink := ecs.NewDonburiSink(world)
//	eng, err := dragon.New(initial, render, dragon.WithEventSink(sink))
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
