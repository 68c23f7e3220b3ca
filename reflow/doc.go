// Package reflow keeps an embedded editor sized to its container.
//
// A Signal turns a noisy host resize-notification stream into a rate-limited
// sequence of callbacks. A Scheduler owns one editor instance, measures its
// container, and pushes layouts to the editor without ever overlapping two
// layout calls or running them closer together than its minimum interval.
// Sources funnels coarser trigger sources (window resize, visibility, focus,
// property changes) into the same Scheduler entry point.
//
// All deferred work goes through a Clock, so the package can be driven
// deterministically in tests (see package reflowtest).
package reflow
