// Package artifact stages a rendered diagram in a private temporary file,
// shows it, and then either moves it into the project's output directory
// under a timestamped name or deletes it. The final file only ever appears
// through a move of a fully written temp file, so a crash mid-write cannot
// leave a truncated diagram in the output directory.
package artifact
