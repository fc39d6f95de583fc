// Package ui contains the Bubble Tea program that powers the interactive
// console. The Model type focuses on message orchestration while dedicated
// files own the session lifecycle, screen modes, command dispatch and
// rendering.
//
// Message flow:
//   - Bubble Tea invokes Model.Update with incoming messages, which are routed
//     through a typed handler registry so each tea.Msg is handled by a focused
//     function.
//   - Key presses go to the global bindings first (quit, mode switching) and
//     then to the single mode registered as the input source.
//   - A submitted line is tokenized, resolved and parsed on the event loop.
//     The command itself runs in a tea.Cmd through the internal/ui/command
//     bus, so remote round trips never block rendering.
//   - Commands write through a sink channel. Output, console requests such as
//     mode switches, and the completion message all travel through the sink
//     in the order they were produced.
//
// Session lifecycle:
//   - Disconnected moves to Connecting in Init. The handshake and the first
//     index fetch both have to succeed to reach Active; otherwise the program
//     terminates with the error available from ExitErr.
//   - A user quit, a remote disconnect callback or a connection error from a
//     command moves Active to Disconnecting. Cleanup stops the watcher,
//     disconnects the client and flushes queued output before Terminated.
//
// Screen modes:
//   - legacy keeps a scrollback buffer and the command line; it implements
//     Writer and LineEditor.
//   - torrents lists the cached index with a fuzzy filter.
//   - log shows the event log, which also receives output produced while a
//     non-buffering mode is active.
//
// Backend interactions:
//   - Once Active, a backend.Watcher refreshes the index on a timer and on
//     remote change notifications; the dispatcher applies each result to the
//     shared cache and the torrent list is re-synced.
package ui
