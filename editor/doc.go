// Package editor provides the Bubble Tea code editor component used by the
// playground, backed by the buffer package.
//
// The component owns input handling, soft wrapping, viewport scrolling,
// gutter rendering and a line highlighter hook. It does not size itself:
// hosts call SetSize (or Relayout for an automatic pass) when the pane
// geometry is known, usually through a reflow.Scheduler.
package editor
