// Package config provides the configuration system for the guides engine.
//
// # Architecture
//
// Configuration is organized in layers with higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  5. Command Line Flags      │  ← Highest priority
//	├─────────────────────────────┤
//	│  4. Environment Variables   │  ← GUIDES_*
//	├─────────────────────────────┤
//	│  3. Project File            │  ← .guides.toml / .guides.yaml
//	├─────────────────────────────┤
//	│  2. User File               │  ← ~/.config/guides/config.toml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// # Sub-packages
//
//   - layer: Layer storage and priority merging
//   - loader: TOML, YAML and environment variable loading
//   - watcher: File watching for live reload
//   - notify: Change notification and observer pattern
//
// # Basic Usage
//
//	cfg := config.New(config.WithProjectConfig(".guides.toml"))
//	if err := cfg.Load(ctx); err != nil {
//	    log.Printf("config: %v", err)
//	}
//	defer cfg.Close()
//
//	opts := cfg.Guides().Options()
//
// # Configuration Files
//
//	# ~/.config/guides/config.toml
//	updateDelay = 0.1
//
//	[limit]
//	maximum = 500
//
//	[active]
//	extraIndent = true
//	color = { dark = "#7f7f7f", light = "#b0b0b0" }
//
// # Error Handling
//
// Reading a typed section never fails. Values of the wrong type or out of
// range fall back to their defaults and are recorded; ConfigErrors returns
// them. Load and Reload report unreadable or malformed files.
package config
