package mutation

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	mutationsTotal *prometheus.CounterVec
	metricsOnce    sync.Once
)

func mutationCounter() *prometheus.CounterVec {
	metricsOnce.Do(func() {
		mutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "board_mutations_total",
			Help: "Submissions by kind and outcome",
		}, []string{"kind", "status"})
	})
	return mutationsTotal
}
