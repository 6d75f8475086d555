// Package tui implements the tracerange terminal user interface.
//
// Built with Charmbracelet's BubbleTea and Lipgloss. The interface has
// two screens: an experiment list and a range view for the opened
// experiment. Every range change goes through the session's unit
// controller, so undo/redo history and the active-experiment tracker
// observe TUI edits the same way they observe any other writer.
//
// Component layout:
//
//	model.go      root model, message routing, Init/Update/View
//	keys.go       key handling per screen and edit mode
//	theme.go      centralized color and style definitions
//	header.go     top bar and footer with keyboard hints
//	explist.go    experiment selector (initial screen)
//	rangeview.go  range bars, selection form, bookmarks
//	helpers.go    bar geometry, truncation
package tui
