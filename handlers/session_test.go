package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"mediquery/client"
	"mediquery/handlers"
	"mediquery/models"
	"mediquery/routes"
	"mediquery/services/session"
	"mediquery/services/sharing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type stubAPI struct {
	client.DiagnosisAPI
	searchFn func(ctx context.Context, q models.SearchQuery) ([]models.DiagnosisMatch, error)
	redeemFn func(ctx context.Context, token, password string) (*models.SharedRecords, error)
}

func (s *stubAPI) Search(ctx context.Context, q models.SearchQuery) ([]models.DiagnosisMatch, error) {
	return s.searchFn(ctx, q)
}

func (s *stubAPI) RedeemShareLink(ctx context.Context, token, password string) (*models.SharedRecords, error) {
	return s.redeemFn(ctx, token, password)
}

func newTestRouter(api client.DiagnosisAPI) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()
	registry := session.NewRegistry(time.Minute, func() *session.Controller {
		return session.NewController(api, session.NewMapSyncAdapter(nil), 10, logger)
	})

	router := gin.New()
	hb := &handlers.HandlerBundle{
		Session: handlers.NewSessionHandler(registry, logger),
		Stream:  handlers.NewStreamHandler(registry, logger),
		Booking: handlers.NewBookingHandler(registry, api, logger),
		Sharing: handlers.NewSharingHandler(&sharing.DefaultShareService{API: api}, logger),
	}
	routes.RegisterSessionRoutes(router, hb)
	routes.RegisterSharingRoutes(router, hb)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	if body == "" {
		body = "{}"
	}
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSessionSearchEndpoint(t *testing.T) {
	api := &stubAPI{searchFn: func(ctx context.Context, q models.SearchQuery) ([]models.DiagnosisMatch, error) {
		return []models.DiagnosisMatch{{Disease: "Influenza", Confidence: 0.85}}, nil
	}}
	router := newTestRouter(api)

	created := doJSON(t, router, http.MethodPost, "/api/sessions", "")
	if created.Code != http.StatusCreated {
		t.Fatalf("create returned %d: %s", created.Code, created.Body)
	}
	var createResp struct {
		SessionID string `json:"sessionId"`
	}
	if err := json.Unmarshal(created.Body.Bytes(), &createResp); err != nil {
		t.Fatalf("decode create response: %v", err)
	}

	w := doJSON(t, router, http.MethodPost, "/api/sessions/"+createResp.SessionID+"/search", `{"symptoms":"fever cough"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("search returned %d: %s", w.Code, w.Body)
	}
	var snap models.SessionSnapshot
	if err := json.Unmarshal(w.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if snap.Phase != models.PhaseReady || len(snap.Render.Cards) != 1 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}

	t.Run("EmptySymptoms", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/sessions/"+createResp.SessionID+"/search", `{"symptoms":"  "}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("UnknownSession", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/api/sessions/nope/search", `{"symptoms":"fever"}`)
		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
	})
}

func TestSearchTransportFailureReturnsBadGateway(t *testing.T) {
	api := &stubAPI{searchFn: func(ctx context.Context, q models.SearchQuery) ([]models.DiagnosisMatch, error) {
		return nil, errors.New("connection refused")
	}}
	router := newTestRouter(api)

	created := doJSON(t, router, http.MethodPost, "/api/sessions", "")
	var createResp struct {
		SessionID string `json:"sessionId"`
	}
	if err := json.Unmarshal(created.Body.Bytes(), &createResp); err != nil {
		t.Fatalf("decode create response: %v", err)
	}

	w := doJSON(t, router, http.MethodPost, "/api/sessions/"+createResp.SessionID+"/search", `{"symptoms":"fever"}`)
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d: %s", w.Code, w.Body)
	}
	var resp struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if resp.Message != "diagnosis service unavailable" {
		t.Fatalf("unexpected message %q", resp.Message)
	}
}

func TestRedeemEndpointStatusMapping(t *testing.T) {
	cases := []struct {
		name       string
		backend    int
		wantStatus int
		wantKind   string
	}{
		{"WrongPassword", http.StatusUnauthorized, http.StatusUnauthorized, sharing.RedeemWrongPassword},
		{"Expired", http.StatusForbidden, http.StatusForbidden, sharing.RedeemExpired},
		{"Unknown", http.StatusNotFound, http.StatusNotFound, sharing.RedeemInvalidToken},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			api := &stubAPI{redeemFn: func(ctx context.Context, token, password string) (*models.SharedRecords, error) {
				return nil, &client.APIError{StatusCode: tc.backend, Reason: "rejected"}
			}}
			router := newTestRouter(api)

			w := doJSON(t, router, http.MethodPost, "/api/share/redeem", `{"token":"tok123"}`)
			if w.Code != tc.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tc.wantStatus, w.Code, w.Body)
			}
			var resp struct {
				Kind string `json:"kind"`
			}
			json.Unmarshal(w.Body.Bytes(), &resp)
			if resp.Kind != tc.wantKind {
				t.Fatalf("expected kind %s, got %s", tc.wantKind, resp.Kind)
			}
		})
	}
}
