// Package events provides the synchronous publish/subscribe bus the library
// uses to announce state changes to presentation layers.
//
// Callbacks run in registration order on the publishing goroutine. A callback
// that panics is recovered and logged; the remaining callbacks still run.
// Consumers that need to marshal onto a UI loop do so inside their callback.
package events
