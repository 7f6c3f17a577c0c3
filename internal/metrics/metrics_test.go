package metrics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCounter struct {
	counts map[string]int64
	err    error
	calls  int
}

func (f *fakeCounter) TableCounts() (map[string]int64, error) {
	f.calls++
	return f.counts, f.err
}

func TestCollector_Collect(t *testing.T) {
	c := &Collector{DB: &fakeCounter{counts: map[string]int64{"users": 3, "question_likes": 11}}}

	require.NoError(t, c.Collect())
	assert.Equal(t, float64(3), testutil.ToFloat64(tableRows.WithLabelValues("users")))
	assert.Equal(t, float64(11), testutil.ToFloat64(tableRows.WithLabelValues("question_likes")))
}

func TestCollector_CollectError(t *testing.T) {
	want := errors.New("no such table: users")
	c := &Collector{DB: &fakeCounter{err: want}}
	assert.ErrorIs(t, c.Collect(), want)
}

func TestCollector_RunStopsWithContext(t *testing.T) {
	db := &fakeCounter{counts: map[string]int64{"replies": 1}}
	c := &Collector{DB: db, Interval: time.Hour}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	require.Eventually(t, func() bool {
		return testutil.ToFloat64(tableRows.WithLabelValues("replies")) == 1
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("collector did not stop")
	}
}

func TestMiddleware_RecordsRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/things/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	before := testutil.ToFloat64(httpRequests.WithLabelValues(http.MethodGet, "/things/{id}", "418"))
	for _, id := range []string{"1", "2"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/things/"+id, nil))
	}
	after := testutil.ToFloat64(httpRequests.WithLabelValues(http.MethodGet, "/things/{id}", "418"))
	assert.Equal(t, float64(2), after-before)
}

func TestHandler_ExposesMetrics(t *testing.T) {
	tableRows.WithLabelValues("questions").Set(5)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `qaforum_table_rows{table="questions"} 5`))
}
