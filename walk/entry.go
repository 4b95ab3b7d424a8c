// entry.go - the caller-visible walk result
//
// Licensing Terms: GPLv2

package walk

// Entry is a single filesystem object handed back by Walker.Read. Path is
// always populated; File holds the basename that was compared against the
// filename entity when the match was driven by one rather than by a path
// or filepath entity alone, and HasFile distinguishes an empty basename
// from "no filename comparison was performed".
type Entry struct {
	Path    string
	File    string
	HasFile bool
}

// FreeEntry exists for parity with the explicit free call of the walker
// API; Entry carries no pooled resources of its own today, so this is a
// no-op kept as the one stable release point callers should use.
func FreeEntry(e *Entry) {}
