package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordOracleCall(t *testing.T) {
	success := testutil.ToFloat64(OracleCalls.WithLabelValues("success"))
	failure := testutil.ToFloat64(OracleCalls.WithLabelValues("failure"))

	RecordOracleCall(200*time.Millisecond, nil)
	RecordOracleCall(time.Second, errors.New("timeout"))
	RecordOracleCall(time.Second, errors.New("quota"))

	assert.Equal(t, success+1, testutil.ToFloat64(OracleCalls.WithLabelValues("success")))
	assert.Equal(t, failure+2, testutil.ToFloat64(OracleCalls.WithLabelValues("failure")))
}

func TestRecordCatalogLoad(t *testing.T) {
	before := testutil.ToFloat64(CatalogLoads.WithLabelValues(SourceFallback))

	RecordCatalogLoad(SourceFallback, 5)

	assert.Equal(t, before+1, testutil.ToFloat64(CatalogLoads.WithLabelValues(SourceFallback)))
	assert.Equal(t, 5.0, testutil.ToFloat64(CatalogCourses))
}

func TestRecordRecommendation(t *testing.T) {
	ok := testutil.ToFloat64(RecommendationRuns.WithLabelValues("success"))
	failed := testutil.ToFloat64(RecommendationRuns.WithLabelValues("error"))

	RecordRecommendation(3*time.Second, 4, nil)
	RecordRecommendation(0, 0, errors.New("boom"))

	assert.Equal(t, ok+1, testutil.ToFloat64(RecommendationRuns.WithLabelValues("success")))
	assert.Equal(t, failed+1, testutil.ToFloat64(RecommendationRuns.WithLabelValues("error")))
}

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequests.WithLabelValues("GET", "/api/courses", "200"))

	RecordAPIRequest("GET", "/api/courses", 200, 15*time.Millisecond)

	assert.Equal(t, before+1, testutil.ToFloat64(APIRequests.WithLabelValues("GET", "/api/courses", "200")))
}

func TestSetBreakerState(t *testing.T) {
	SetBreakerState("oracle", 2)
	assert.Equal(t, 2.0, testutil.ToFloat64(OracleBreakerState.WithLabelValues("oracle")))
}
