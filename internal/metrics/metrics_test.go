package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	// Register should be safe to call multiple times
	Register()
	Register()

	assert.NotPanics(t, func() {
		ObserveHTTP("/api/v1/properties/{id}/quote", "GET", 200, 5*time.Millisecond)
		IncQuote()
		IncSelectionFailover()
	})
}

func TestSubmissionCounter(t *testing.T) {
	before := testutil.ToFloat64(submissions.WithLabelValues("confirmed"))
	IncSubmission("confirmed")
	IncSubmission("confirmed")
	assert.Equal(t, before+2, testutil.ToFloat64(submissions.WithLabelValues("confirmed")))
}
