package metrics

import (
	"sync/atomic"
	"time"
)

type SearchMetric struct {
	Duration     time.Duration
	Episodes     int
	Cutoff       int
	FullPlayouts int
	IsTreeReset  bool
	IsFallback   bool // No child was expanded, the move was picked at random
}

type MoveMetric struct {
	Step   int
	Player string
	Move   string
	SearchMetric
}

type GameMetric struct {
	ID         string
	Starting   string // Player to move at the start position
	Winner     string // "" for a draw or an unfinished game
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration
	TotalMoves int
	PGN        string
}

type Collector interface {
	Start(cutoff int)
	SetTreeReset(value bool)
	SetFallback(value bool)
	AddFullPlayout()
	AddEpisode()
	Complete() SearchMetric
}

type collector struct {
	cutoff       int
	startTime    time.Time
	episodes     atomic.Int32
	fullPlayouts atomic.Int32
	isTreeReset  atomic.Bool
	isFallback   atomic.Bool
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) SetTreeReset(value bool) {
	m.isTreeReset.Store(value)
}

func (m *collector) SetFallback(value bool) {
	m.isFallback.Store(value)
}

// Start resets the counters for a new search
func (m *collector) Start(cutoff int) {
	m.startTime = time.Now()
	m.cutoff = cutoff
	m.episodes.Store(0)
	m.fullPlayouts.Store(0)
	m.isFallback.Store(false)
}

func (m *collector) AddFullPlayout() {
	m.fullPlayouts.Add(1)
}

func (m *collector) AddEpisode() {
	m.episodes.Add(1)
}

func (m *collector) Complete() SearchMetric {
	return SearchMetric{
		Duration:     time.Since(m.startTime),
		Episodes:     int(m.episodes.Load()),
		Cutoff:       m.cutoff,
		FullPlayouts: int(m.fullPlayouts.Load()),
		IsTreeReset:  m.isTreeReset.Load(),
		IsFallback:   m.isFallback.Load(),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(cutoff int)        {}
func (m *dummyCollector) SetTreeReset(value bool) {}
func (m *dummyCollector) SetFallback(value bool)  {}
func (m *dummyCollector) AddFullPlayout()         {}
func (m *dummyCollector) AddEpisode()             {}
func (m *dummyCollector) Complete() SearchMetric  { return SearchMetric{} }
