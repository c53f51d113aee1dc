// Package history keeps the short list of recently generated passwords.
package history

// MaxEntries is the number of passwords kept, most recent first
const MaxEntries = 10

// Record returns a new history with password prepended and older entries
// evicted beyond MaxEntries. The input slice is never modified.
func Record(history []string, password string) []string {
	n := len(history) + 1
	if n > MaxEntries {
		n = MaxEntries
	}

	result := make([]string, 0, n)
	result = append(result, password)
	return append(result, history[:n-1]...)
}

// Truncate returns at most MaxEntries leading entries as a new slice
func Truncate(history []string) []string {
	n := len(history)
	if n > MaxEntries {
		n = MaxEntries
	}
	result := make([]string, n)
	copy(result, history[:n])
	return result
}
