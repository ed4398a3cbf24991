// Package profiler is a small in-process frame profiler.
//
// A Profiler owns named Monitors. Each Monitor keeps an ordered history of
// Snaps, one per frame, written by scoped Recordings:
//
//	m := prof.Monitor("render")
//	if rec := m.Record(); rec != nil {
//	    defer rec.Stop()
//	    draw()
//	}
//
// Stop is nil-safe, so `defer m.Record().Stop()` is also valid. Only one
// recording may be opened per Monitor per frame; NewFrame starts the next one.
// History grows until Cull is called, which keeps the oldest entries.
package profiler
