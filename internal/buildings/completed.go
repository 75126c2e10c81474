package buildings

import "strings"

// ParseCompleted splits the stored comma-joined list of completed
// apartments, trimming entries and dropping empty ones.
func ParseCompleted(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// JoinCompleted is the inverse of ParseCompleted.
func JoinCompleted(apartments []string) string {
	return strings.Join(apartments, ", ")
}

// Toggle flips one apartment in the list, appending it when absent.
func Toggle(completed []string, apartment string) []string {
	out := make([]string, 0, len(completed)+1)
	found := false
	for _, a := range completed {
		if a == apartment {
			found = true
			continue
		}
		out = append(out, a)
	}
	if !found {
		out = append(out, apartment)
	}
	return out
}

// Progress counts how many roster apartments are in the completed list.
func Progress(e Entry, completed []string) (done, total int) {
	set := make(map[string]struct{}, len(completed))
	for _, c := range completed {
		set[c] = struct{}{}
	}
	for _, a := range e.Apartments {
		if _, ok := set[a]; ok {
			done++
		}
	}
	return done, len(e.Apartments)
}
