// Package registry provides an explicitly owned, type-keyed service
// registry.
//
// The host constructs one Registry, registers its collaborators, and passes
// the registry by reference to whatever needs them. There is no package
// global and no ambient lookup; resolution is keyed by the concrete Go type
// requested at the call site.
//
//	reg := registry.New()
//	_ = registry.Register[AudioPlayer](reg, player)
//	_ = registry.Register[*SaveStore](reg, store)
//
//	audio, err := registry.Resolve[AudioPlayer](reg)
package registry
