// Package genealogy reconstructs bounded ancestor lineages from a flat
// population of individual records.
//
// A population is loaded once into an immutable Store. Build walks the
// ancestors of one or more root individuals against a shared accumulator,
// so lineages that meet at a common ancestor are merged and every ancestor
// is expanded once. Two optional cutoffs bound the walk:
//
//   - MaxDepth: generations of parents to include (0 = roots only).
//   - MinBirthYear: ancestors born strictly before this year are left out,
//     together with everyone reachable only through them.
//
// Parent identifier 0 (NoParent) means "no parent on record". A nonzero
// parent identifier that the store does not know ends that branch silently.
// Only a root missing from the store is an error (ErrIndividualNotFound).
//
// Both the lineage walk and Depth use explicit work lists rather than
// recursion, so deep or cyclic input cannot exhaust the call stack.
//
// Example:
//
//	store, err := genealogy.Load(rows)
//	if err != nil {
//	    return err
//	}
//	g, err := genealogy.Build(store, []genealogy.ID{1, 2},
//	    genealogy.WithMaxDepth(5),
//	    genealogy.WithMinBirthYear(1700),
//	)
//	if err != nil {
//	    return err
//	}
//	for _, row := range g.Rows() {
//	    fmt.Println(row.ID, row.Father, row.Mother)
//	}
package genealogy
