package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"shareit/internal/config"
	"shareit/internal/converter"
	"shareit/internal/database"
	"shareit/internal/events"
	"shareit/internal/service"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	db     *database.DB
	svc    Services
	server *HTTPServer
}

func newTestEnv(t *testing.T, cfg config.APIConfig) *testEnv {
	t.Helper()
	logger := zerolog.New(io.Discard)

	db, err := database.NewDB(":memory:", &logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	svc := Services{
		Bookings: service.NewBookingService(db, db, db, events.NewEventBus(), &logger),
		Users:    service.NewUserService(db, &logger),
		Items:    service.NewItemService(db, db, db, db, db, &logger),
		Comments: service.NewCommentService(db, db, db, db, &logger),
		Requests: service.NewItemRequestService(db, db, db, &logger),
		Health:   db,
	}
	return &testEnv{db: db, svc: svc, server: NewHTTPServer(&cfg, svc, &logger)}
}

func defaultAPIConfig() config.APIConfig {
	return config.APIConfig{Enabled: true, HTTP: config.APIHTTPConfig{Enabled: true}}
}

func (e *testEnv) do(t *testing.T, method, path string, userID int64, body any) *httptest.ResponseRecorder {
	t.Helper()
	return e.doWithHeaders(t, method, path, userID, body, nil)
}

func (e *testEnv) doWithHeaders(t *testing.T, method, path string, userID int64, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != 0 {
		req.Header.Set("X-Sharer-User-Id", strconv.FormatInt(userID, 10))
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decodeBody[map[string]string](t, rec)["error"]
}

func (e *testEnv) createUser(t *testing.T, name, email string) converter.UserDTO {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/users", 0, map[string]string{"name": name, "email": email})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeBody[converter.UserDTO](t, rec)
}

func (e *testEnv) createItem(t *testing.T, ownerID int64, name string, available bool) converter.ItemDTO {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/items", ownerID, map[string]any{
		"name":        name,
		"description": name + " for rent",
		"available":   available,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeBody[converter.ItemDTO](t, rec)
}

func bookingBody(itemID int64, start, end time.Time) map[string]any {
	return map[string]any{
		"itemId": itemID,
		"start":  start.UTC().Format(converter.LocalTimeLayout),
		"end":    end.UTC().Format(converter.LocalTimeLayout),
	}
}
