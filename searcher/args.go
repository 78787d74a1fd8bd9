package searcher

import (
	"math"
	"time"
)

// Hyperparameters for MCTS

const DefaultExploration = 1.4 // Exploration constant C
const DefaultDuration = 3 * time.Second

// Use rewards to estimate the chance of winning
const WIN = 1.0
const LOSS = 1 - WIN
const DRAW = (WIN + LOSS) / 2

// Full playouts unless a cutoff is configured
const MaxCutoff = math.MaxInt

// Plies below the previous root searched for a reusable subtree
const reuseDepth = 2
