package ordering

// MoveItem returns a copy of items with the element at from moved to to. The
// destination is clamped; an out of range source returns an unchanged copy.
func MoveItem(items []string, from, to int) []string {
	out := append([]string(nil), items...)
	if from < 0 || from >= len(out) {
		return out
	}
	to = clamp(to, len(out))
	if from == to {
		return out
	}

	item := out[from]
	out = append(out[:from], out[from+1:]...)
	out = append(out[:to], append([]string{item}, out[to:]...)...)
	return out
}

// ApplyItemOrder sorts items by their position in a remembered order. Items
// missing from order keep their relative order after the known ones. Repeated
// values consume successive occurrences in order.
func ApplyItemOrder(items, order []string) []string {
	if len(order) == 0 {
		return append([]string(nil), items...)
	}

	remaining := make(map[string]int, len(items))
	for _, item := range items {
		remaining[item]++
	}

	out := make([]string, 0, len(items))
	for _, item := range order {
		if remaining[item] == 0 {
			continue
		}
		remaining[item]--
		out = append(out, item)
	}

	used := make(map[string]int, len(out))
	for _, item := range out {
		used[item]++
	}
	for _, item := range items {
		if used[item] > 0 {
			used[item]--
			continue
		}
		out = append(out, item)
	}
	return out
}

func clamp(idx, length int) int {
	if idx < 0 {
		return 0
	}
	if idx > length-1 {
		return length - 1
	}
	return idx
}
