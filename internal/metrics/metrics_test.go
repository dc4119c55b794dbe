package metrics

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dhima/catalog-service/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

type stubCollections map[string][]json.RawMessage

func (s stubCollections) Collection(name string) []json.RawMessage { return s[name] }

func TestMiddleware_WhenRequestServed_ThenCountedByRouteTemplate(t *testing.T) {
	// Arrange
	gin.SetMode(gin.TestMode)
	m := New()
	router := gin.New()
	router.Use(m.Middleware())
	router.GET("/api/events/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	// Act
	for _, id := range []string{"a", "b"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/events/"+id, nil))
	}

	// Assert
	got := testutil.ToFloat64(m.requests.WithLabelValues(http.MethodGet, "/api/events/:id", "404"))
	if got != 2 {
		t.Errorf("expected 2 requests on the route template, got %v", got)
	}
	if testutil.CollectAndCount(m.duration) != 1 {
		t.Error("expected one latency series")
	}
}

func TestNotify_WhenChangesCommitted_ThenCountedPerCollectionAndAction(t *testing.T) {
	m := New()

	m.Notify(context.Background(), storage.Change{Collection: "events", Action: storage.ActionCreated, ID: "1"})
	m.Notify(context.Background(), storage.Change{Collection: "events", Action: storage.ActionCreated, ID: "2"})
	m.Notify(context.Background(), storage.Change{Collection: "events", Action: storage.ActionDeleted, ID: "1"})

	if got := testutil.ToFloat64(m.changes.WithLabelValues("events", "created")); got != 2 {
		t.Errorf("expected 2 creations, got %v", got)
	}
	if got := testutil.ToFloat64(m.changes.WithLabelValues("events", "deleted")); got != 1 {
		t.Errorf("expected 1 deletion, got %v", got)
	}
}

func TestHandler_WhenScraped_ThenExposesRecordGauges(t *testing.T) {
	// Arrange
	store := stubCollections{
		"events":   {json.RawMessage(`{"id":"1"}`), json.RawMessage(`{"id":"2"}`)},
		"trainers": nil,
	}
	m := New()
	m.RegisterCollections(store, []string{"events", "trainers"})
	w := httptest.NewRecorder()

	// Act
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics/prometheus", nil))

	// Assert
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{
		`catalog_records{collection="events"} 2`,
		`catalog_records{collection="trainers"} 0`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("expected exposition to contain %q", want)
		}
	}
}
