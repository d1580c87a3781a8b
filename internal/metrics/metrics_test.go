package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRecorder(reg)

	r.PaperGenerated(20 * time.Millisecond)
	r.BucketMatched("exact")
	r.BucketMatched("exact")
	r.BucketMatched("any")
	r.QuestionsInserted(3)
	r.QuestionsRejected(0)
	r.QuestionsRejected(2)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.papers))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.buckets.WithLabelValues("exact")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.buckets.WithLabelValues("any")))
	assert.Equal(t, 3.0, testutil.ToFloat64(r.inserted))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.rejected))
}

func TestNilRecorderIsSafe(t *testing.T) {
	var r *Recorder
	r.PaperGenerated(time.Second)
	r.BucketMatched("exact")
	r.QuestionsInserted(1)
	r.QuestionsRejected(1)
}

func TestHandlerExposesMetrics(t *testing.T) {
	reg := NewRegistry()
	r := NewRecorder(reg)
	r.QuestionsInserted(1)

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "qpaper_questions_inserted_total 1"))
}
