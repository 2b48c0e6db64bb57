package umbrella

// densityStrategy clusters over the distance matrix 1 - similarity: a node
// with at least densityMinPts neighbors within the threshold distance is a
// core point, and clusters are the density-connected sets around core points.
// Border nodes join the first core cluster that reaches them; nodes reachable
// from no core point stay singletons and are filtered later. The resolution
// parameter has no meaning for density clustering and is ignored.
type densityStrategy struct{}

func (*densityStrategy) Name() string { return StrategyDensity }

// densityMinPts counts the node itself, so 2 means one sufficiently close
// neighbor makes a core point.
const densityMinPts = 2

func (*densityStrategy) Detect(g *Graph, _ float64) ([][]int, error) {
	n := g.NodeCount()
	if n == 0 {
		return nil, nil
	}

	// The graph's adjacency already encodes distance <= 1-threshold, so the
	// neighbor lists double as epsilon-neighborhoods.
	membership := make([]int, n)
	for i := range membership {
		membership[i] = -1
	}

	next := 0

	for i := 0; i < n; i++ {
		if membership[i] >= 0 || !isCore(g, i) {
			continue
		}

		// Breadth-first expansion over density-reachable nodes.
		membership[i] = next
		queue := []int{i}

		for len(queue) > 0 {
			node := queue[0]
			queue = queue[1:]

			if !isCore(g, node) {
				continue // border nodes join but do not expand
			}

			for _, nb := range g.Neighbors(node) {
				if membership[nb] >= 0 {
					continue
				}

				membership[nb] = next
				queue = append(queue, nb)
			}
		}

		next++
	}

	// Unclaimed nodes become singleton groups with fresh labels so the
	// membership vector stays total.
	for i := range membership {
		if membership[i] < 0 {
			membership[i] = next
			next++
		}
	}

	return groupByMembership(membership), nil
}

func isCore(g *Graph, i int) bool {
	return len(g.Neighbors(i))+1 >= densityMinPts
}
