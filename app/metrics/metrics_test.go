package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit(t *testing.T) {
	Init()
	Init()

	require.NotNil(t, sourceFetchTotal)
	require.NotNil(t, sourceItemsTotal)
	require.NotNil(t, aggregationDurationSeconds)
	require.NotNil(t, httpRequestsTotal)
}

func TestObserveSourceFetch(t *testing.T) {
	Init()

	ObserveSourceFetch("init-test-source", StatusSuccess, 7, 300*time.Millisecond)
	ObserveSourceFetch("init-test-source", StatusTimeout, 0, 12*time.Second)
	ObserveSourceFetch("init-test-source", StatusError, 3, time.Second)

	assert.Equal(t, 1.0, testutil.ToFloat64(sourceFetchTotal.WithLabelValues("init-test-source", StatusSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(sourceFetchTotal.WithLabelValues("init-test-source", StatusTimeout)))
	assert.Equal(t, 7.0, testutil.ToFloat64(sourceItemsTotal.WithLabelValues("init-test-source")), "failed fetches add no items")
}

func TestObserveAggregation(t *testing.T) {
	Init()

	ObserveAggregation("test-profile", 42, 2*time.Second)
	ObserveAggregation("test-profile", 17, time.Second)

	assert.Equal(t, 17.0, testutil.ToFloat64(aggregationItems.WithLabelValues("test-profile")))
	assert.Positive(t, testutil.CollectAndCount(aggregationDurationSeconds))
}

func TestObserveHTTPRequest(t *testing.T) {
	Init()

	ObserveHTTPRequest(http.MethodGet, "/test-route", http.StatusOK, 10*time.Millisecond)
	ObserveHTTPRequest(http.MethodGet, "", http.StatusNotFound, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/test-route", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "unmatched", "404")))
}

func TestHandler(t *testing.T) {
	Init()
	ObserveSourceFetch("handler-test-source", StatusSuccess, 1, time.Millisecond)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(body), `regwatch_source_fetch_total{source="handler-test-source",status="success"} 1`)
}
