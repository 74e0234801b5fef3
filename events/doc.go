// Package events provides typed in-process event channels.
//
// A Channel fans a published value out to every subscriber synchronously on
// the publisher's goroutine, matching the cooperative per-frame model of the
// rest of the framework. Subscriber order is unspecified. A panic in one
// subscriber is recovered and logged; remaining subscribers still run.
//
//	damaged := events.NewChannel[int]()
//	cancel := damaged.Subscribe(func(amount int) { hud.Flash(amount) })
//	defer cancel()
//
//	damaged.Publish(12)
package events
