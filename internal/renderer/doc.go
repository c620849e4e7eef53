// Package renderer paints documents with their indentation guides.
//
// The renderer is responsible for:
//   - Converting document lines to cells with tab expansion and wide runes
//   - Drawing guide glyphs for the normal, stack and active categories
//   - Tinting indentation bands with the background palette
//   - Marking the active scope in the gutter
//   - Backend abstraction for terminal output
//
// Architecture:
//
//	┌─────────────────────────────────────────┐
//	│           Renderer (Facade)             │
//	├─────────────────────────────────────────┤
//	│  Viewport │ Gutter │ Layout │ Resolver  │
//	├─────────────────────────────────────────┤
//	│  Decoration cache (guide/band styles)   │
//	├─────────────────────────────────────────┤
//	│           Backend Abstraction           │
//	├─────────────────────────────────────────┤
//	│  Terminal (tcell) │ Memory              │
//	└─────────────────────────────────────────┘
//
// Usage:
//
//	b, _ := backend.NewTerminal()
//	r := renderer.New(b, renderer.DefaultOptions())
//	r.Render(renderer.Frame{Doc: doc, Result: result, Decorations: set, Selections: sels})
package renderer
