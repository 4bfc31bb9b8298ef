package tui

// truncateEnd shortens s to at most limit runes, ending in an ellipsis
// when something was cut.
func truncateEnd(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	if limit == 1 {
		return "…"
	}
	return string(r[:limit-1]) + "…"
}

// truncateMiddle keeps both ends of s, which suits URLs where the host and
// the last path segment carry meaning.
func truncateMiddle(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	r := []rune(s)
	n := len(r)
	if n <= limit {
		return s
	}
	if limit == 1 {
		return "…"
	}
	keep := limit - 1
	left := keep / 2
	right := keep - left
	if left == 0 {
		return "…" + string(r[n-right:])
	}
	return string(r[:left]) + "…" + string(r[n-right:])
}
