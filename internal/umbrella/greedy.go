package umbrella

import "sort"

// greedyStrategy is agglomerative modularity optimization: every node starts
// as its own community and the merge with the largest positive modularity
// gain is applied until no merge improves modularity. Quadratic in community
// count, which is fine at canonical-topic scale.
type greedyStrategy struct{}

func (*greedyStrategy) Name() string { return StrategyGreedy }

func (*greedyStrategy) Detect(g *Graph, resolution float64) ([][]int, error) {
	n := g.NodeCount()
	if n == 0 {
		return nil, nil
	}

	totalWeight := g.totalEdgeWeight()
	if totalWeight == 0 {
		return groupByMembership(identityMembership(n)), nil
	}

	m2 := 2 * totalWeight

	// between[a][b] is the total edge weight between communities a and b.
	between := make([]map[int]float64, n)
	strength := make([]float64, n)
	members := make([][]int, n)
	alive := make([]bool, n)

	for i := 0; i < n; i++ {
		between[i] = make(map[int]float64, len(g.adj[i]))
		for k, j := range g.adj[i] {
			between[i][j] = g.weights[i][k]
		}

		strength[i] = g.nodeStrength(i)
		members[i] = []int{i}
		alive[i] = true
	}

	for {
		bestA, bestB := -1, -1
		bestGain := 0.0

		for a := 0; a < n; a++ {
			if !alive[a] {
				continue
			}

			// Deterministic scan of merge partners.
			partners := make([]int, 0, len(between[a]))
			for b := range between[a] {
				if b > a && alive[b] {
					partners = append(partners, b)
				}
			}

			sort.Ints(partners)

			for _, b := range partners {
				gain := 2 * (between[a][b]/m2 - resolution*strength[a]*strength[b]/(m2*m2))
				if gain > bestGain {
					bestGain = gain
					bestA, bestB = a, b
				}
			}
		}

		if bestA < 0 {
			break
		}

		merge(between, strength, members, alive, bestA, bestB)
	}

	membership := make([]int, n)

	for c := 0; c < n; c++ {
		if !alive[c] {
			continue
		}

		for _, node := range members[c] {
			membership[node] = c
		}
	}

	return groupByMembership(membership), nil
}

// merge folds community b into community a.
func merge(between []map[int]float64, strength []float64, members [][]int, alive []bool, a, b int) {
	for c, w := range between[b] {
		if c == a {
			continue
		}

		between[a][c] += w
		between[c][a] += w
		delete(between[c], b)
	}

	delete(between[a], b)

	strength[a] += strength[b]
	members[a] = append(members[a], members[b]...)

	alive[b] = false
	between[b] = nil
	members[b] = nil
}

func identityMembership(n int) []int {
	membership := make([]int, n)
	for i := range membership {
		membership[i] = i
	}

	return membership
}
