package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New(nil)

	m.IncrementUsersCreated()
	m.IncrementUsersCreated()
	m.IncrementUsersDeleted()
	m.ObserveRequest(http.MethodGet, http.StatusNotFound, 5*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.UsersCreated))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.UsersDeleted))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "404")))
}

func TestInstancesAreIndependent(t *testing.T) {
	a, b := New(nil), New(nil)
	a.IncrementUsersCreated()
	assert.Equal(t, 0.0, testutil.ToFloat64(b.UsersCreated))
}

func TestHandlerExposesRegistrySize(t *testing.T) {
	m := New(func() int { return 5 })

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "simple_users_registered 5")
	assert.True(t, strings.Contains(body, "go_goroutines"))
}
