// Package controller adapts editor events to guide scans.
//
// The controller owns the update timer and the last-selection memo and
// nothing else. Each scan is a pure call into the guides package whose
// result, together with the current decoration handles, is handed to a
// Sink as a full replacement of the editor's guides.
//
//	ctrl := controller.New(cfg, sink, controller.WithLogger(logger))
//	ctrl.SelectionChanged(editor, editor.Selections())
//	...
//	ctrl.ConfigurationChanged()
package controller
