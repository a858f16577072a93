package radarr

import (
	"fmt"
)

// FormatStatus describes the library state of a TMDB movie
func FormatStatus(title string, m LibraryMovie, owned bool) string {
	if !owned {
		return fmt.Sprintf("%s is not in the Radarr library\n", title)
	}

	state := "missing file"
	if m.HasFile {
		state = "downloaded"
	}
	monitored := "unmonitored"
	if m.Monitored {
		monitored = "monitored"
	}

	return fmt.Sprintf("%s is in the Radarr library as %q (%d), %s, %s\n", title, m.Title, m.Year, state, monitored)
}
