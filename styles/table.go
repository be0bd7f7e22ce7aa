package styles

// table is an insertion-ordered find-or-insert set. The id of a value is the
// number of values present when it was first inserted.
type table[T comparable] struct {
	ids   map[T]uint32
	items []T
}

func (t *table[T]) findOrInsert(v T) (uint32, bool) {
	if id, ok := t.ids[v]; ok {
		return id, false
	}
	if t.ids == nil {
		t.ids = make(map[T]uint32)
	}
	id := uint32(len(t.items))
	t.ids[v] = id
	t.items = append(t.items, v)
	return id, true
}

func (t *table[T]) at(id uint32) (T, bool) {
	if int(id) >= len(t.items) {
		var zero T
		return zero, false
	}
	return t.items[id], true
}

func (t *table[T]) len() int {
	return len(t.items)
}
