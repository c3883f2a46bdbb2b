// Package config provides the configuration record for vwindow.
//
// Settings come from three layers, later layers overriding earlier ones:
//
//  1. Built-in defaults (Default)
//  2. A TOML or YAML file, chosen by extension
//  3. Environment variables prefixed with VWINDOW_
//
// Every setting has a dotted path used by all layers:
//
//	[list]
//	item_extent  = 50       # pixels per item
//	buffer_count = 20       # items rendered beyond each viewport edge
//	total_count  = 100000   # logical list length
//
//	[items]
//	source       = "template"   # template, json or script
//	template     = "Item {n}"
//	data_file    = "items.json"
//	data_path    = "items"
//	data_field   = "name"
//	script       = "items.lua"
//	watch_script = true
//
//	[display]
//	viewport_extent = 0     # 0 fills the terminal
//	cell_extent     = 0     # pixels per terminal row, 0 means item_extent
//	scroll_step     = 0     # pixels per arrow key, 0 means item_extent
//	node_reuse      = false
//	scrollbar       = true
//
//	[logging]
//	level = "info"
//	file  = ""
//
// The environment variable for a path is the upper-cased path with dots
// replaced by underscores: VWINDOW_LIST_ITEM_EXTENT.
//
// Validate rejects a list geometry with window.ErrInvalidGeometry, so a bad
// configuration is reported before anything is rendered.
package config
