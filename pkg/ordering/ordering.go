package ordering

import (
	"sort"

	"github.com/goliatone/go-schemeweave/pkg/schema"
)

// Sentinel ranks fields that carry neither an override nor a declared order.
const Sentinel = 999

// Overrides maps field ids to explicit ranks for one context.
type Overrides map[string]int

// Clone returns a copy of the overrides.
func (o Overrides) Clone() Overrides {
	if o == nil {
		return nil
	}
	out := make(Overrides, len(o))
	for id, rank := range o {
		out[id] = rank
	}
	return out
}

// Prune removes the entries for ids, typically custom fields that no longer
// exist. The receiver is modified in place.
func (o Overrides) Prune(ids ...string) {
	for _, id := range ids {
		delete(o, id)
	}
}

// Rank reports the effective rank of field under overrides.
func Rank(field schema.Field, overrides Overrides) int {
	if rank, ok := overrides[field.ID]; ok {
		return rank
	}
	if field.Order != nil {
		return *field.Order
	}
	return Sentinel
}

// Resolve concatenates static then custom fields and stable-sorts them by
// effective rank. The inputs are not modified.
func Resolve(static, custom []schema.Field, overrides Overrides) []schema.Field {
	out := make([]schema.Field, 0, len(static)+len(custom))
	out = append(out, static...)
	out = append(out, custom...)

	ranks := make([]int, len(out))
	for idx, field := range out {
		ranks[idx] = Rank(field, overrides)
	}
	positions := make([]int, len(out))
	for idx := range positions {
		positions[idx] = idx
	}
	sort.SliceStable(positions, func(i, j int) bool {
		return ranks[positions[i]] < ranks[positions[j]]
	})

	resolved := make([]schema.Field, len(out))
	for idx, pos := range positions {
		resolved[idx] = out[pos]
	}
	return resolved
}

// IndexOf returns the position of id in fields, or -1.
func IndexOf(fields []schema.Field, id string) int {
	for idx, field := range fields {
		if field.ID == id {
			return idx
		}
	}
	return -1
}

// Reorder moves fieldID to target within the resolved list and returns a fresh
// override map ranking every field 0..n-1 in the new order. Target is clamped
// to the list bounds. Locked fields keep their indices: the moved field only
// travels through unlocked slots. Unknown and locked fields report false and
// leave the caller's overrides as they were.
func Reorder(resolved []schema.Field, fieldID string, target int) (Overrides, bool) {
	from := IndexOf(resolved, fieldID)
	if from < 0 || resolved[from].Locked {
		return nil, false
	}
	target = clamp(target, len(resolved))

	ids := IDs(resolved)
	var slots []int
	var movable []string
	fromSlot, targetSlot := 0, 0
	for idx, field := range resolved {
		if field.Locked {
			continue
		}
		if idx == from {
			fromSlot = len(slots)
		}
		if idx < target {
			targetSlot++
		}
		slots = append(slots, idx)
		movable = append(movable, field.ID)
	}
	if targetSlot > fromSlot && resolved[target].Locked {
		// moving down onto a locked field stops short of it
		targetSlot--
	}

	movable = MoveItem(movable, fromSlot, targetSlot)
	for slot, idx := range slots {
		ids[idx] = movable[slot]
	}

	overrides := make(Overrides, len(ids))
	for rank, id := range ids {
		overrides[id] = rank
	}
	return overrides, true
}

// IDs lists the field ids in order.
func IDs(fields []schema.Field) []string {
	ids := make([]string, len(fields))
	for idx, field := range fields {
		ids[idx] = field.ID
	}
	return ids
}
