package umbrella

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/creatorlens/topic-engine/internal/core/errors"
)

// Strategy clusters a similarity graph into communities of node indexes.
// Implementations must be deterministic for a fixed graph and resolution.
// Returned communities are unfiltered; minimum-size filtering belongs to the
// assembler.
type Strategy interface {
	Name() string
	Detect(g *Graph, resolution float64) ([][]int, error)
}

// Strategy names, in cascade priority order.
const (
	StrategyLouvain    = "louvain"
	StrategyGreedy     = "greedy_modularity"
	StrategyDensity    = "density"
	StrategyComponents = "connected_components"
	StrategyAuto       = "auto"
)

// cascade lists every strategy from highest quality to the guaranteed
// fallback. Connected components always succeeds, so detection can degrade
// but never fail outright.
func cascade() []Strategy {
	return []Strategy{
		&louvainStrategy{},
		&greedyStrategy{},
		&densityStrategy{},
		&componentsStrategy{},
	}
}

// SelectStrategies resolves a configured strategy name into the ordered list
// to attempt. "auto" (or empty) yields the full cascade; a concrete name
// yields that strategy followed by the strategies below it, so a failure
// still degrades instead of aborting the run.
func SelectStrategies(name string, logger *zerolog.Logger) ([]Strategy, error) {
	all := cascade()

	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || name == StrategyAuto {
		return all, nil
	}

	for i, s := range all {
		if s.Name() == name {
			if i > 0 {
				logger.Info().Str("strategy", name).Msg("clustering strategy pinned below the cascade top")
			}

			return all[i:], nil
		}
	}

	return nil, errors.ErrNoStrategyAvailable
}

// detectCommunities runs the strategy list in order, returning the first
// successful result and the name of the strategy that produced it.
func detectCommunities(g *Graph, resolution float64, strategies []Strategy, logger *zerolog.Logger) ([][]int, string, error) {
	var lastErr error

	for _, s := range strategies {
		communities, err := s.Detect(g, resolution)
		if err != nil {
			lastErr = err

			logger.Warn().Err(err).Str("strategy", s.Name()).Msg("clustering strategy failed, degrading")

			continue
		}

		return communities, s.Name(), nil
	}

	if lastErr != nil {
		return nil, "", lastErr
	}

	return nil, "", errors.ErrNoStrategyAvailable
}
