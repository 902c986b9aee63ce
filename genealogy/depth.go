package genealogy

// depthFrame is one entry of the explicit DFS stack used by Depth.
// A node is pushed once to expand it and once more (exit=true) to compute
// its height after its parents are done.
type depthFrame struct {
	id   ID
	exit bool
}

const (
	white = iota // unvisited
	gray         // on the current path
	black        // height known
)

// Depth returns the greatest number of parent links that can be followed
// upward from id. A parent link can be followed when the parent identifier
// is nonzero and present in the store; anything else ends the chain.
//
// The result is the longest chain over both parents at every generation
// (maximum, not sum). Depth fails with ErrIndividualNotFound if id itself is
// absent. A link back to an individual already on the current chain is
// treated as a chain end, so cyclic input terminates.
func Depth(s *Store, id ID) (int, error) {
	if s == nil {
		return 0, ErrNilStore
	}
	if !s.Has(id) {
		return 0, individualNotFound(id)
	}

	state := make(map[ID]int)
	height := make(map[ID]int)
	stack := []depthFrame{{id: id}}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if top.exit {
			best := 0
			rec, _ := s.Get(top.id)
			for _, p := range rec.Parents() {
				// gray parents close a cycle and do not extend the chain
				if s.resolvable(p) && state[p] == black {
					if h := height[p] + 1; h > best {
						best = h
					}
				}
			}
			height[top.id] = best
			state[top.id] = black
			continue
		}

		if state[top.id] != white {
			continue
		}
		state[top.id] = gray
		stack = append(stack, depthFrame{id: top.id, exit: true})

		rec, _ := s.Get(top.id)
		for _, p := range rec.Parents() {
			if s.resolvable(p) && state[p] == white {
				stack = append(stack, depthFrame{id: p})
			}
		}
	}

	return height[id], nil
}
