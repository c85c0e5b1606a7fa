package artifact

import (
	"strings"
	"time"
)

// Parts of a saved diagram's filename: project_<timestamp>_circuit<ext>.
const (
	FilenamePrefix  = "project_"
	FilenameSuffix  = "_circuit"
	DefaultExt      = ".png"
	TimestampLayout = "20060102_150405"
)

// Filename returns the name a diagram saved at t is stored under. The
// timestamp has second resolution, so two saves within one second collide
// and the later one replaces the earlier.
func Filename(t time.Time, ext string) string {
	if ext == "" {
		ext = DefaultExt
	}
	return FilenamePrefix + t.Format(TimestampLayout) + FilenameSuffix + ext
}

// ParseFilename extracts the timestamp from a name produced by Filename.
// The time is interpreted in loc.
func ParseFilename(name string, loc *time.Location) (time.Time, bool) {
	if !strings.HasPrefix(name, FilenamePrefix) {
		return time.Time{}, false
	}
	rest := strings.TrimPrefix(name, FilenamePrefix)
	if len(rest) < len(TimestampLayout) {
		return time.Time{}, false
	}
	stamp, tail := rest[:len(TimestampLayout)], rest[len(TimestampLayout):]
	if !strings.HasPrefix(tail, FilenameSuffix+".") {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(TimestampLayout, stamp, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
