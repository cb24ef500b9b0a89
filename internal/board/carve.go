package board

import (
	"math/rand/v2"
	"slices"
)

// neighbour evaluation order while carving
var carveOrder = [4]Direction{North, South, West, East}

/*
 * carve builds the maze as a spanning tree over the interior. Starting next
 * to the entrance it pops a cell, knocks down the walls to every interior
 * neighbour not visited yet, and then pushes those neighbours in random
 * order. A cell is marked visited the moment it is pushed, so no later cell
 * can open a second wall into it: every cell but the start gets exactly one
 * parent edge and the result has no cycles.
 *
 * Returns the start cell.
 */
func carve(g *Grid, entrance Pos, r *rand.Rand) Pos {
	start := g.inward(entrance)

	visited := make([]bool, len(g.cells))
	stack := make([]int, 0, len(g.cells))

	visited[g.index(start)] = true
	stack = append(stack, g.index(start))

	candidates := make([]int, 0, len(carveOrder))
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		pos := g.pos(cur)

		candidates = candidates[:0]
		for _, d := range carveOrder {
			n, ok := g.Neighbor(pos, d)
			if !ok || visited[g.index(n)] {
				continue
			}
			g.openWall(pos, d)
			candidates = append(candidates, g.index(n))
		}

		for len(candidates) > 0 {
			i := r.IntN(len(candidates))
			next := candidates[i]
			candidates = slices.Delete(candidates, i, i+1)
			visited[next] = true
			stack = append(stack, next)
		}
	}

	Log.Debug("carved maze", "start", start)
	return start
}
