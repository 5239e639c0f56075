package nace

// Index holds the lookup structures built from one parse.
// It is immutable after BuildIndex returns.
type Index struct {
	byCode          map[string]*Record
	byIDWithoutDots map[string]*Record
	childrenOf      map[string][]string
}

// BuildIndex indexes records by code and by identifier, and links every
// record to its parent when the parent is present.
//
// Duplicate codes or identifiers are last-write-wins. A record whose parent
// is absent is simply left unlinked. The records slice must not be modified
// afterwards since the index points into it.
func BuildIndex(records []Record) *Index {
	idx := &Index{
		byCode:          make(map[string]*Record, len(records)),
		byIDWithoutDots: make(map[string]*Record, len(records)),
		childrenOf:      make(map[string][]string),
	}

	for i := range records {
		rec := &records[i]
		idx.byCode[rec.Code] = rec
		idx.byIDWithoutDots[rec.IDWithoutDots] = rec
	}

	for i := range records {
		rec := &records[i]
		parent, ok := ParentCode(rec.Code, rec.Level)
		if !ok || parent == rec.Code {
			continue
		}
		if _, exists := idx.byCode[parent]; !exists {
			continue
		}
		idx.childrenOf[parent] = append(idx.childrenOf[parent], rec.Code)
	}

	return idx
}

// ByCode looks up a record by dotted code.
func (idx *Index) ByCode(code string) (*Record, bool) {
	rec, ok := idx.byCode[code]
	return rec, ok
}

// ByIDWithoutDots looks up a record by identifier without dots.
func (idx *Index) ByIDWithoutDots(id string) (*Record, bool) {
	rec, ok := idx.byIDWithoutDots[id]
	return rec, ok
}

// Children returns the dotted codes of the direct children of code in
// document order. The result is a fresh slice and never nil.
func (idx *Index) Children(code string) []string {
	children := idx.childrenOf[code]
	out := make([]string, len(children))
	copy(out, children)
	return out
}

// Len returns the number of distinct codes.
func (idx *Index) Len() int {
	return len(idx.byCode)
}
