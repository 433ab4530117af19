package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	reg := NewRegistry()
	m := New(reg)

	m.ObserveComputation("driver", time.Now(), 12, nil)
	m.ObserveComputation("driver", time.Now(), 0, errors.New("boom"))
	m.ObserveNotification(nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Computations.WithLabelValues("driver", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Computations.WithLabelValues("driver", "error")))
	// failed computations leave the last size alone
	assert.Equal(t, 12.0, testutil.ToFloat64(m.Entries.WithLabelValues("driver")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Notifications.WithLabelValues("sent")))

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "championship_standings_computations_total")
	assert.Contains(t, string(body), "go_goroutines")
}
