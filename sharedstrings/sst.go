package sharedstrings

import (
	"errors"
	"fmt"
	"strings"

	"github.com/unidoc/unioffice"
	"github.com/unidoc/unioffice/schema/soo/sml"
)

// ErrIndexOutOfRange is returned when a shared-string index is not present in the table.
var ErrIndexOutOfRange = errors.New("shared string index out of range")

// Table is the document-wide shared-string table. The index of a value is its
// position in the emitted <sst> part, so values are never removed or reordered.
type Table struct {
	index  map[string]int
	values []string
}

// New creates an empty table.
func New() *Table {
	return &Table{index: make(map[string]int)}
}

// InsertUnique returns the index of value, appending it when it was not seen before.
func (t *Table) InsertUnique(value string) int {
	if i, ok := t.index[value]; ok {
		return i
	}
	i := len(t.values)
	t.index[value] = i
	t.values = append(t.values, value)
	return i
}

// Value returns the text stored at index.
func (t *Table) Value(index int) (string, error) {
	if index < 0 || index >= len(t.values) {
		return "", fmt.Errorf("index %d of %d: %w", index, len(t.values), ErrIndexOutOfRange)
	}
	return t.values[index], nil
}

// Count returns the number of unique values.
func (t *Table) Count() int {
	return len(t.values)
}

// Values returns a copy of the table in insertion order.
func (t *Table) Values() []string {
	out := make([]string, len(t.values))
	copy(out, t.values)
	return out
}

// Save projects the table into a SpreadsheetML shared-string part.
func (t *Table) Save() *sml.Sst {
	sst := sml.NewSst()
	for _, v := range t.values {
		si := sml.NewCT_Rst()
		si.T = unioffice.String(v)
		sst.Si = append(sst.Si, si)
	}
	sst.CountAttr = unioffice.Uint32(uint32(len(t.values)))
	sst.UniqueCountAttr = unioffice.Uint32(uint32(len(t.values)))
	return sst
}

// Load interns every item of an existing shared-string part and returns, for
// each position in sst, the index the value received in this table. Duplicate
// items in the source collapse onto the same index.
func (t *Table) Load(sst *sml.Sst) []int {
	if sst == nil {
		return nil
	}
	remap := make([]int, len(sst.Si))
	for i, si := range sst.Si {
		remap[i] = t.InsertUnique(Text(si))
	}
	return remap
}

// Text flattens a plain or rich-text item; run formatting is dropped.
func Text(si *sml.CT_Rst) string {
	if si == nil {
		return ""
	}
	if si.T != nil {
		return *si.T
	}
	var b strings.Builder
	for _, r := range si.R {
		b.WriteString(r.T)
	}
	return b.String()
}
