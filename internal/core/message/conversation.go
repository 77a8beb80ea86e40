package message

// Counterpart returns the other participant of a message from userID's point of view.
func Counterpart(userID, senderID, receiverID string) string {
	if senderID == userID {
		return receiverID
	}
	return senderID
}

// FirstPerCounterpart keeps the first item seen for each counterpart of userID.
//
// Items must arrive most recent first, so the item kept for a counterpart is
// the latest message exchanged with them and the output stays ordered by
// recency. On equal timestamps the input order decides.
func FirstPerCounterpart[T any](userID string, items []T, participants func(T) (senderID, receiverID string)) []T {
	seen := make(map[string]bool)
	out := make([]T, 0, len(items))
	for _, item := range items {
		sender, receiver := participants(item)
		c := Counterpart(userID, sender, receiver)
		if seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, item)
	}
	return out
}

// PageLimits bounds thread pagination.
type PageLimits struct {
	Default int
	Max     int
}

// DefaultPageLimits are used when no configuration overrides them.
var DefaultPageLimits = PageLimits{Default: 50, Max: 200}

// NormalizePage applies the page limits: a non-positive limit selects the
// default, larger limits are capped at the maximum, negative offsets become 0.
func NormalizePage(limit, offset int, limits PageLimits) (int, int) {
	if limit <= 0 {
		limit = limits.Default
	}
	if limits.Max > 0 && limit > limits.Max {
		limit = limits.Max
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// HasMore reports whether messages remain past the current page.
func HasMore(offset, limit, total int) bool {
	return offset+limit < total
}
