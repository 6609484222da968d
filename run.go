package attractor

import (
	"time"

	"github.com/hupe1980/attractor/color"
	"github.com/hupe1980/attractor/internal/pool"
	"golang.org/x/time/rate"
)

// run is the state shared by all phases of one decomposition: the model, the
// worker pool owned by the run and its observability hooks.
type run[P any] struct {
	model    Model[P]
	alg      color.Algebra[P]
	pool     *pool.Pool
	log      *Logger
	metrics  MetricsCollector
	progress *rate.Sometimes
}

func newRun[P any](m Model[P], opts []Option) *run[P] {
	o := applyOptions(opts)
	return &run[P]{
		model:    m,
		alg:      m.Solver(),
		pool:     pool.New(o.workers),
		log:      o.logger.WithStateCount(m.StateCount()).WithWorkers(o.workers),
		metrics:  o.metricsCollector,
		progress: &rate.Sometimes{Interval: 2 * time.Second},
	}
}

func (r *run[P]) close() {
	r.pool.Close()
}

func (r *run[P]) newMap() *StateMap[P] {
	return MakeStateMap(r.model)
}
