package umbrella

import "sort"

// louvainStrategy implements Louvain community detection over the weighted
// similarity graph: repeated local-moving passes followed by graph
// aggregation, maximizing modularity at the configured resolution. Nodes are
// visited in index order with no randomization, so results are deterministic
// for a fixed graph.
type louvainStrategy struct{}

func (*louvainStrategy) Name() string { return StrategyLouvain }

const louvainMaxLevels = 10

func (*louvainStrategy) Detect(g *Graph, resolution float64) ([][]int, error) {
	if g.NodeCount() == 0 {
		return nil, nil
	}

	// Working copy as weighted adjacency maps; entries are merged during
	// aggregation.
	adj := make([]map[int]float64, g.n)
	for i := 0; i < g.n; i++ {
		adj[i] = make(map[int]float64, len(g.adj[i]))
		for k, j := range g.adj[i] {
			adj[i][j] = g.weights[i][k]
		}
	}

	// membership[i] maps original node i to its community across levels.
	membership := make([]int, g.n)
	for i := range membership {
		membership[i] = i
	}

	for level := 0; level < louvainMaxLevels; level++ {
		communities, improved := localMoving(adj, resolution)
		if !improved && level > 0 {
			break
		}

		// Relabel communities densely in first-seen order.
		relabel := make(map[int]int)
		for node := range adj {
			c := communities[node]
			if _, ok := relabel[c]; !ok {
				relabel[c] = len(relabel)
			}
		}

		for i := range membership {
			membership[i] = relabel[communities[membership[i]]]
		}

		if len(relabel) == len(adj) {
			// No merges happened at this level; a further pass cannot improve.
			break
		}

		adj = aggregate(adj, communities, relabel)
	}

	return groupByMembership(membership), nil
}

// localMoving runs the Louvain local-moving phase: every node, in index
// order, is moved to the neighboring community with the best positive
// modularity gain. Passes repeat until a full pass makes no move.
func localMoving(adj []map[int]float64, resolution float64) ([]int, bool) {
	n := len(adj)

	community := make([]int, n)
	strength := make([]float64, n)
	communityTotal := make([]float64, n)

	totalWeight := 0.0

	for i := range adj {
		community[i] = i

		for _, w := range adj[i] {
			strength[i] += w
			totalWeight += w
		}

		communityTotal[i] = strength[i]
	}

	totalWeight /= 2
	if totalWeight == 0 {
		return community, false
	}

	m2 := 2 * totalWeight
	improved := false

	for moved := true; moved; {
		moved = false

		for i := 0; i < n; i++ {
			current := community[i]

			// Weight from i into each neighboring community.
			links := make(map[int]float64, len(adj[i]))
			for j, w := range adj[i] {
				links[community[j]] += w
			}

			communityTotal[current] -= strength[i]

			bestCommunity := current
			bestGain := links[current] - resolution*communityTotal[current]*strength[i]/m2

			// Deterministic iteration over candidate communities.
			candidates := make([]int, 0, len(links))
			for c := range links {
				candidates = append(candidates, c)
			}

			sort.Ints(candidates)

			for _, c := range candidates {
				if c == current {
					continue
				}

				gain := links[c] - resolution*communityTotal[c]*strength[i]/m2
				if gain > bestGain {
					bestGain = gain
					bestCommunity = c
				}
			}

			communityTotal[bestCommunity] += strength[i]
			community[i] = bestCommunity

			if bestCommunity != current {
				moved = true
				improved = true
			}
		}
	}

	return community, improved
}

// aggregate condenses communities into super-nodes, summing parallel edge
// weights. Intra-community weight becomes a self-loop, which localMoving
// counts toward node strength on the next level.
func aggregate(adj []map[int]float64, communities []int, relabel map[int]int) []map[int]float64 {
	condensed := make([]map[int]float64, len(relabel))
	for i := range condensed {
		condensed[i] = make(map[int]float64)
	}

	for i := range adj {
		ci := relabel[communities[i]]

		for j, w := range adj[i] {
			cj := relabel[communities[j]]
			condensed[ci][cj] += w
		}
	}

	return condensed
}

// groupByMembership turns a membership vector into index groups ordered by
// community label, nodes ascending within each group.
func groupByMembership(membership []int) [][]int {
	byCommunity := make(map[int][]int)
	for node, c := range membership {
		byCommunity[c] = append(byCommunity[c], node)
	}

	labels := make([]int, 0, len(byCommunity))
	for c := range byCommunity {
		labels = append(labels, c)
	}

	sort.Ints(labels)

	groups := make([][]int, 0, len(byCommunity))
	for _, c := range labels {
		groups = append(groups, byCommunity[c])
	}

	return groups
}
