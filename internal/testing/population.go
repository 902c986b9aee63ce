package testing

import (
	"math/rand/v2"

	"github.com/teranos/ancestry/genealogy"
)

const maxSimulatedID = 1_000_000

// SimulateAncestors generates a complete ancestor tree above root with the
// given number of parent generations, in depth-first order.
//
// Every individual gets a fresh random identifier. Individuals in the last
// generation keep nonzero father and mother identifiers that are not part of
// the returned population, the way real exports reference ancestors that
// were never transcribed. Birth years go back about 30 years per generation
// from 2000.
func SimulateAncestors(rng *rand.Rand, root genealogy.ID, generations int) []genealogy.Row {
	used := map[genealogy.ID]bool{root: true}
	fresh := func() genealogy.ID {
		for {
			id := genealogy.ID(rng.Int64N(maxSimulatedID) + 1)
			if !used[id] {
				used[id] = true
				return id
			}
		}
	}

	type frame struct {
		id    genealogy.ID
		depth int
		sex   genealogy.Sex
	}

	var rows []genealogy.Row
	stack := []frame{{id: root, depth: 0, sex: genealogy.SexMale}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		father, mother := fresh(), fresh()
		rows = append(rows, genealogy.Row{
			ID: f.id,
			Record: genealogy.Record{
				Father:    father,
				Mother:    mother,
				Sex:       f.sex,
				BirthYear: genealogy.Some(2000 - 30*f.depth - rng.IntN(10)),
			},
		})
		if f.depth < generations {
			stack = append(stack,
				frame{id: mother, depth: f.depth + 1, sex: genealogy.SexFemale},
				frame{id: father, depth: f.depth + 1, sex: genealogy.SexMale},
			)
		}
	}
	return rows
}
