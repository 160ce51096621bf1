package httpadapter_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/couchcryptid/scene-card-service/internal/adapter/httpadapter"
	"github.com/couchcryptid/scene-card-service/internal/builder"
	"github.com/couchcryptid/scene-card-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockConstructor struct {
	card *domain.SceneCard
	err  error
	got  builder.Request
}

func (m *mockConstructor) Construct(_ context.Context, req builder.Request) (*domain.SceneCard, error) {
	m.got = req
	return m.card, m.err
}

type mockPublisher struct {
	calls int
	err   error
}

func (m *mockPublisher) Publish(_ context.Context, _ *domain.SceneCard) error {
	m.calls++
	return m.err
}

type mockReadiness struct {
	err error
}

func (m *mockReadiness) CheckReadiness(_ context.Context) error { return m.err }

func sampleCard() *domain.SceneCard {
	return &domain.SceneCard{
		Version: domain.SchemaVersion,
		ID:      "sc_20251009T112000Z_48.85837_2.29448",
		Source: domain.Source{
			Lat:           48.85837,
			Lon:           2.29448,
			DatetimeLocal: "2025-10-09T13:20:00+02:00",
			Timezone:      "Europe/Paris",
		},
		Prompt: "Scene at 48.85837, 2.29448 on 2025-10-09 at 13:20 local time.",
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(ctor *mockConstructor, pub httpadapter.CardPublisher, readyErr error) *httpadapter.Server {
	return httpadapter.NewServer(":0", ctor, pub, &mockReadiness{err: readyErr}, discardLogger())
}

const validBody = `{
	"lat": 48.85837,
	"lon": 2.29448,
	"datetime_local": "2025-10-09T13:20:00+02:00",
	"timezone": "Europe/Paris"
}`

func TestConstructCard_Success(t *testing.T) {
	ctor := &mockConstructor{card: sampleCard()}
	srv := newTestServer(ctor, nil, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/cards", strings.NewReader(validBody))

	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 48.85837, ctor.got.Lat)
	assert.Equal(t, "Europe/Paris", ctor.got.Timezone)

	var card domain.SceneCard
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &card))
	assert.Equal(t, "sc_20251009T112000Z_48.85837_2.29448", card.ID)
	assert.Equal(t, domain.SchemaVersion, card.Version)
}

func TestConstructCard_PublishesCard(t *testing.T) {
	pub := &mockPublisher{}
	srv := newTestServer(&mockConstructor{card: sampleCard()}, pub, nil)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/cards", strings.NewReader(validBody)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, pub.calls)
}

func TestConstructCard_PublishFailureDoesNotFailRequest(t *testing.T) {
	pub := &mockPublisher{err: errors.New("broker unreachable")}
	srv := newTestServer(&mockConstructor{card: sampleCard()}, pub, nil)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/cards", strings.NewReader(validBody)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, pub.calls)
}

func TestConstructCard_MalformedBody(t *testing.T) {
	srv := newTestServer(&mockConstructor{card: sampleCard()}, nil, nil)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/cards", strings.NewReader(`{"lat": "north"`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestConstructCard_UnknownFieldRejected(t *testing.T) {
	srv := newTestServer(&mockConstructor{card: sampleCard()}, nil, nil)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/cards",
		strings.NewReader(`{"lat": 1, "lon": 2, "altitude": 35000}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestConstructCard_InputErrorReturns400(t *testing.T) {
	ctor := &mockConstructor{err: &domain.InputError{Field: "lat", Message: "91.00000 outside [-90,90]"}}
	srv := newTestServer(ctor, nil, nil)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/cards", strings.NewReader(validBody)))

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "lat", body["field"])
	assert.Contains(t, body["error"], "outside [-90,90]")
}

func TestConstructCard_ValidationErrorReturns500(t *testing.T) {
	ctor := &mockConstructor{err: &domain.ValidationError{Rule: "enum", Field: "weather.condition", Message: "unknown value"}}
	srv := newTestServer(ctor, nil, nil)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/cards", strings.NewReader(validBody)))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "weather.condition", "internal detail stays out of the response")
}

func TestHealthzReturns200(t *testing.T) {
	srv := newTestServer(&mockConstructor{}, nil, nil)
	rec := httptest.NewRecorder()

	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestReadyzReturns200WhenReady(t *testing.T) {
	srv := newTestServer(&mockConstructor{}, nil, nil)
	rec := httptest.NewRecorder()

	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyzReturns503WhenNotReady(t *testing.T) {
	srv := newTestServer(&mockConstructor{}, nil, fmt.Errorf("no cards built yet"))
	rec := httptest.NewRecorder()

	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "not ready", body["status"])
	assert.Equal(t, "no cards built yet", body["error"])
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(&mockConstructor{}, nil, nil)
	rec := httptest.NewRecorder()

	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
