package question

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	MetricSearchDuration = "question_search_duration_seconds"
	MetricSearchResults  = "question_search_results"
	MetricVotesTotal     = "question_votes_total"
)

// Metrics holds the collectors for search and voting. A nil *Metrics records nothing.
type Metrics struct {
	searchDuration *prometheus.HistogramVec
	searchResults  *prometheus.HistogramVec
	votes          *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	return &Metrics{
		searchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    MetricSearchDuration,
				Help:    "Question search latency by strategy",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
			[]string{"strategy"},
		),
		searchResults: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    MetricSearchResults,
				Help:    "Number of questions returned by a search",
				Buckets: []float64{0, 1, 5, 10, 20, 50, 100},
			},
			[]string{"strategy"},
		),
		votes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricVotesTotal,
				Help: "Accepted votes by direction",
			},
			[]string{"direction"},
		),
	}
}

func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{m.searchDuration, m.searchResults, m.votes} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) observeSearch(strategy string, took time.Duration, results int) {
	if m == nil {
		return
	}
	m.searchDuration.WithLabelValues(strategy).Observe(took.Seconds())
	m.searchResults.WithLabelValues(strategy).Observe(float64(results))
}

func (m *Metrics) incVotes(delta int64) {
	if m == nil {
		return
	}
	direction := DirectionUp
	if delta < 0 {
		direction = DirectionDown
	}
	m.votes.WithLabelValues(direction).Inc()
}
