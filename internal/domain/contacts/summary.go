package contacts

import "strings"

const summarySeparator = ", "

// FormatPhone renders a single phone the way it appears in a summary.
func FormatPhone(number, kind string) string {
	return number + " (" + kind + ")"
}

// FormatPhoneSummary joins phones, in the order given, into the display
// string stored on Address.PhoneSummary. No phones yields "".
func FormatPhoneSummary(phones []*Phone) string {
	parts := make([]string, 0, len(phones))
	for _, p := range phones {
		if p == nil {
			continue
		}
		parts = append(parts, FormatPhone(p.PhoneNumber, p.Kind))
	}
	return strings.Join(parts, summarySeparator)
}
