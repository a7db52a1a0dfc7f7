package cell

import (
	"sort"
)

type indexedCell struct {
	index uint64
	cell  *Cell
}

// bocIndex orders every distinct cell reachable from the roots so that
// each reference points at a strictly higher index than its parent.
// Deduplication is by content hash, so shared subgraphs collapse into a
// single entry no matter how many parents hold them.
func bocIndex(roots []*Cell) ([]*indexedCell, map[string]*indexedCell) {
	index := map[string]*indexedCell{}

	var next uint64
	pending := roots
	for len(pending) > 0 {
		queue := make([]*Cell, 0, len(pending)*4)
		for _, p := range pending {
			h := string(p.Hash())

			if _, ok := index[h]; ok {
				continue
			}

			index[h] = &indexedCell{
				cell:  p,
				index: next,
			}
			next++

			queue = append(queue, p.refs...)
		}
		pending = queue
	}

	ordered := make([]*indexedCell, 0, len(index))
	for _, item := range index {
		ordered = append(ordered, item)
	}

	// a ref that ended up before its parent gets pushed forward,
	// repeat until the whole index is in reference order
	for moved := true; moved; {
		moved = false

		for _, item := range ordered {
			for _, ref := range item.cell.refs {
				idRef := index[string(ref.Hash())]

				if idRef.index < item.index {
					idRef.index = next
					next++

					moved = true
				}
			}
		}
	}

	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].index < ordered[j].index
	})

	// close the gaps left by the reorder
	for i, item := range ordered {
		item.index = uint64(i)
	}

	return ordered, index
}
