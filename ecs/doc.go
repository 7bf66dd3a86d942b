// Package ecs provides ECS adapters for gazekit's gaze event system.
//
// The primary adapter is [NewDonburiStore], which bridges gaze events
// (enter, exit, select) into a [Donburi] world as typed events.
// Subscribe to [GazeEventType] in your ECS systems to receive them.
//
// Usage:
//
//	store := ecs.NewDonburiStore(world)
//	tracker.SetEntityStore(store)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
