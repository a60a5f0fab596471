// Package logtail reads the game client log.
//
// # Overview
//
// The game appends to EE.log for as long as the client runs. Tailer follows
// that file by byte offset so every complete line is handed to the parser
// exactly once, in file order, without replaying history from before the
// overlay started.
//
// # Cursor Rules
//
//   - A zero cursor is unset. The first successful Poll records end-of-file
//     and emits nothing.
//   - Each newline-terminated line advances the cursor by its raw byte length.
//   - A trailing line without '\n' is a write in progress. It is neither
//     emitted nor consumed; the next Poll re-reads it.
//   - If the file is smaller than the cursor (client restart truncates the
//     log) the cursor moves to the new end and that Poll emits nothing.
//
// Example usage:
//
//	t := logtail.New(path, 0)
//	for {
//		lines, err := t.Poll()
//		if err != nil {
//			log.Printf("tail failed: %v", err)
//		}
//		for _, line := range lines {
//			handle(line)
//		}
//		time.Sleep(100 * time.Millisecond)
//	}
//
// # Decoding
//
// Lines are treated as text. Malformed UTF-8 sequences are dropped from the
// emitted string; the cursor still counts raw bytes so offsets never drift.
//
// # Reading The Last N Lines
//
// Read keeps the ring-buffer reader used for one-shot inspection of a log
// (the replay command's --tail flag). It uses O(maxLines) memory.
//
// # Error Handling
//
// Poll returns wrapped errors for missing or unreadable files and leaves the
// cursor untouched, so callers can log and retry. Read returns nil, nil for a
// missing file.
//
// Tailer does no scheduling and no file watching; the app package owns the
// poll loop and fsnotify wakeups.
package logtail
