package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder wraps the service collectors. A nil *Recorder records nothing.
type Recorder struct {
	papers   prometheus.Counter
	buckets  *prometheus.CounterVec
	duration prometheus.Histogram
	inserted prometheus.Counter
	rejected prometheus.Counter
}

func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		papers: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "qpaper_papers_generated_total",
			Help: "Question papers assembled.",
		}),
		buckets: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "qpaper_bucket_matches_total",
			Help: "Distribution buckets processed, by match tier reached.",
		}, []string{"tier"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "qpaper_generation_seconds",
			Help:    "Wall time of paper generation including the pool fetch.",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
		inserted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "qpaper_questions_inserted_total",
			Help: "Questions saved to the store.",
		}),
		rejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "qpaper_question_rejections_total",
			Help: "Question rows rejected by validation.",
		}),
	}
	reg.MustRegister(r.papers, r.buckets, r.duration, r.inserted, r.rejected)
	return r
}

// NewRegistry returns a registry with the Go and process collectors installed.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return reg
}

func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

func (r *Recorder) PaperGenerated(d time.Duration) {
	if r == nil {
		return
	}
	r.papers.Inc()
	r.duration.Observe(d.Seconds())
}

func (r *Recorder) BucketMatched(tier string) {
	if r == nil {
		return
	}
	r.buckets.WithLabelValues(tier).Inc()
}

func (r *Recorder) QuestionsInserted(n int) {
	if r == nil || n <= 0 {
		return
	}
	r.inserted.Add(float64(n))
}

func (r *Recorder) QuestionsRejected(n int) {
	if r == nil || n <= 0 {
		return
	}
	r.rejected.Add(float64(n))
}
