package umbrella

// componentsStrategy is the guaranteed fallback: plain connected components
// of the thresholded graph. Lowest quality (one stray edge chains two real
// clusters together) but it can never fail, which anchors the cascade.
type componentsStrategy struct{}

func (*componentsStrategy) Name() string { return StrategyComponents }

func (*componentsStrategy) Detect(g *Graph, _ float64) ([][]int, error) {
	n := g.NodeCount()
	if n == 0 {
		return nil, nil
	}

	membership := make([]int, n)
	for i := range membership {
		membership[i] = -1
	}

	next := 0

	for i := 0; i < n; i++ {
		if membership[i] >= 0 {
			continue
		}

		membership[i] = next
		queue := []int{i}

		for len(queue) > 0 {
			node := queue[0]
			queue = queue[1:]

			for _, nb := range g.Neighbors(node) {
				if membership[nb] < 0 {
					membership[nb] = next
					queue = append(queue, nb)
				}
			}
		}

		next++
	}

	return groupByMembership(membership), nil
}
