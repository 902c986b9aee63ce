package genealogy

import "github.com/teranos/ancestry/errors"

// Cutoffs bound a lineage walk. Absent fields impose no limit.
type Cutoffs struct {
	// MaxDepth is the number of parent generations to include; 0 keeps only
	// the roots themselves.
	MaxDepth Optional[int]
	// MinBirthYear excludes individuals born strictly before it, and with
	// them every ancestor reachable only through them. Individuals with no
	// birth year on record are never excluded.
	MinBirthYear Optional[int]
}

func (c Cutoffs) beyondDepth(depth int) bool {
	maxDepth, ok := c.MaxDepth.Get()
	return ok && depth > maxDepth
}

func (c Cutoffs) excludes(rec Record) bool {
	minYear, ok := c.MinBirthYear.Get()
	return ok && rec.BornBefore(minYear)
}

// queueItem pairs an individual with its generation distance from the root.
type queueItem struct {
	id    ID
	depth int
}

// walker holds the mutable state of one Expand call.
type walker struct {
	store *Store
	acc   *Genealogy
	cut   Cutoffs
	queue []queueItem
}

// Expand adds the ancestors of root to acc, breadth first, and returns the
// first error encountered. acc is shared, not copied: calling Expand for
// several roots against one accumulator merges their lineages.
//
// An individual already in acc ends that branch, so applying Expand twice
// with the same root and cutoffs leaves acc unchanged. When MaxDepth is set,
// a member reached again at a strictly shallower generation (possible only
// from a different root) has its parents queued again, without being
// re-inserted, so that membership does not depend on root order.
//
// Expand fails with ErrIndividualNotFound if root is absent from the store.
// Parent identifiers that are 0 or unknown to the store are skipped.
func Expand(s *Store, acc *Genealogy, root ID, cut Cutoffs) error {
	if s == nil {
		return ErrNilStore
	}
	if acc == nil {
		return errors.Wrap(ErrOptionViolation, "accumulator is nil")
	}
	if !s.Has(root) {
		return individualNotFound(root)
	}

	w := &walker{store: s, acc: acc, cut: cut}
	w.enqueue(root, 0)
	w.loop()
	return nil
}

func (w *walker) enqueue(id ID, depth int) {
	w.queue = append(w.queue, queueItem{id: id, depth: depth})
}

func (w *walker) loop() {
	for len(w.queue) > 0 {
		item := w.queue[0]
		w.queue = w.queue[1:]
		w.visit(item)
	}
}

func (w *walker) visit(item queueItem) {
	if w.cut.beyondDepth(item.depth) {
		return
	}
	if prev, seen := w.acc.expandedAt[item.id]; seen {
		if !w.cut.MaxDepth.Valid() || prev <= item.depth {
			return
		}
	}

	rec, ok := w.store.Get(item.id)
	if !ok {
		return
	}
	if w.cut.excludes(rec) {
		return
	}

	w.acc.insert(item.id, rec, item.depth)

	for _, p := range rec.Parents() {
		if w.store.resolvable(p) {
			w.enqueue(p, item.depth+1)
		}
	}
}
