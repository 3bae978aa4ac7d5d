// Package scenario loads YAML scenarios and replays them against a sample
// view model, recording every property change notification.
//
// A scenario lists steps and, optionally, what the run must produce:
//
//	name: attach inside a batch
//	steps:
//	  - op: begin
//	  - op: attach
//	    name: Test
//	    id: 1
//	  - op: end
//	expect:
//	  notifications: []
//
// Supported ops: set-name, set-id, attach, detach, begin, end, override,
// refresh, persist, dispose, finalize.
package scenario
