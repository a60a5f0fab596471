// Package config loads bountyclock's TOML configuration.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/bountyclock/config.toml (default)
//  3. If the config file doesn't exist, fall back to defaults
//  4. If the file exists but fields are missing/empty, use defaults
//
// # Default Values
//
//   - Game log: $LOCALAPPDATA/Warframe/EE.log, or ~/.local/share/Warframe/EE.log
//     when LOCALAPPDATA is unset (Proton/Wine prefixes usually need an override)
//   - Wanted stages: ~/.config/bountyclock/wanted.json
//   - Stage names: ~/.config/bountyclock/translation.json
//   - History database: ~/.local/share/bountyclock/history.db
//   - Application log: ~/.local/share/bountyclock/bountyclock.log
//   - Status API: disabled
//   - Poll interval: 100ms
//   - File watching: enabled
//
// # TOML Format
//
//	log_path = "~/Games/warframe/pfx/drive_c/users/steamuser/AppData/Local/Warframe/EE.log"
//	wanted_path = "~/.config/bountyclock/wanted.json"
//	translation_path = "~/.config/bountyclock/translation.json"
//	history_path = "~/.local/share/bountyclock/history.db"
//	app_log_path = "~/.local/share/bountyclock/bountyclock.log"
//	status_bind = "127.0.0.1:7491"
//	poll_ms = 100
//	watch = true
//
// Every field is optional. Tilde expansion is performed and paths are made
// absolute. poll_ms below 10 is raised to 10.
//
// # Error Handling
//
// Load returns errors for path expansion failures, unreadable files (other
// than os.ErrNotExist, which triggers defaults) and invalid TOML; the parse
// error is wrapped as "parse config".
package config
