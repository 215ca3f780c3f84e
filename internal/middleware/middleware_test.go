package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"edulearn/internal/auth"
	"edulearn/internal/model"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler(called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	})
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name           string
		origins        []string
		method         string
		origin         string
		preflight      bool
		expectedStatus int
		expectHandler  bool
		expectedOrigin string
	}{
		{
			name:           "Preflight request",
			origins:        []string{"*"},
			method:         http.MethodOptions,
			origin:         "https://app.edulearn.vn",
			preflight:      true,
			expectedStatus: http.StatusNoContent,
			expectHandler:  false,
			expectedOrigin: "*",
		},
		{
			name:           "Allowed origin",
			origins:        []string{"https://app.edulearn.vn"},
			method:         http.MethodGet,
			origin:         "https://app.edulearn.vn",
			expectedStatus: http.StatusOK,
			expectHandler:  true,
			expectedOrigin: "https://app.edulearn.vn",
		},
		{
			name:           "Disallowed origin still reaches handler without CORS headers",
			origins:        []string{"https://app.edulearn.vn"},
			method:         http.MethodPost,
			origin:         "https://evil.example",
			expectedStatus: http.StatusOK,
			expectHandler:  true,
			expectedOrigin: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handlerCalled := false
			handler := CORS(tt.origins)(okHandler(&handlerCalled))

			req := httptest.NewRequest(tt.method, "/api/courses", nil)
			req.Header.Set("Origin", tt.origin)
			if tt.preflight {
				req.Header.Set("Access-Control-Request-Method", http.MethodPost)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectHandler, handlerCalled)
			assert.Equal(t, tt.expectedOrigin, w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestAPIKeyAuth(t *testing.T) {
	logger := zerolog.Nop()
	validAPIKey := "test-api-key-123"

	tests := []struct {
		name           string
		apiKey         string
		expectedStatus int
		expectHandler  bool
	}{
		{
			name:           "Valid API key",
			apiKey:         validAPIKey,
			expectedStatus: http.StatusOK,
			expectHandler:  true,
		},
		{
			name:           "Invalid API key",
			apiKey:         "invalid-key",
			expectedStatus: http.StatusUnauthorized,
			expectHandler:  false,
		},
		{
			name:           "Prefix of the key",
			apiKey:         "test-api",
			expectedStatus: http.StatusUnauthorized,
			expectHandler:  false,
		},
		{
			name:           "Missing API key",
			apiKey:         "",
			expectedStatus: http.StatusUnauthorized,
			expectHandler:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handlerCalled := false
			handler := APIKeyAuth(validAPIKey, logger)(okHandler(&handlerCalled))

			req := httptest.NewRequest(http.MethodPost, "/internal/vouchers/import", nil)
			if tt.apiKey != "" {
				req.Header.Set("X-API-Key", tt.apiKey)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectHandler, handlerCalled)
		})
	}
}

func TestAuthenticate(t *testing.T) {
	const secret = "jwt-test-secret"
	verifier := auth.NewVerifier(secret)

	valid, err := auth.SignToken(secret, model.Actor{UserID: 5, Role: model.RoleStudent}, time.Hour)
	require.NoError(t, err)
	expired, err := auth.SignToken(secret, model.Actor{UserID: 5, Role: model.RoleStudent}, -time.Hour)
	require.NoError(t, err)
	forged, err := auth.SignToken("other-secret", model.Actor{UserID: 1, Role: model.RoleAdmin}, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name           string
		header         string
		expectedStatus int
		expectActor    bool
	}{
		{"Valid token", "Bearer " + valid, http.StatusOK, true},
		{"Missing header", "", http.StatusUnauthorized, false},
		{"Wrong scheme", "Basic " + valid, http.StatusUnauthorized, false},
		{"Expired token", "Bearer " + expired, http.StatusUnauthorized, false},
		{"Forged token", "Bearer " + forged, http.StatusUnauthorized, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got model.Actor
			var found bool
			handler := Authenticate(verifier, zerolog.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got, found = auth.ActorFrom(r.Context())
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectActor, found)
			if tt.expectActor {
				assert.Equal(t, model.Actor{UserID: 5, Role: model.RoleStudent}, got)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name           string
		actor          *model.Actor
		expectedStatus int
	}{
		{"Admin allowed", &model.Actor{UserID: 1, Role: model.RoleAdmin}, http.StatusOK},
		{"Student forbidden", &model.Actor{UserID: 5, Role: model.RoleStudent}, http.StatusForbidden},
		{"Anonymous", nil, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handlerCalled := false
			handler := RequireRole(model.RoleAdmin)(okHandler(&handlerCalled))

			req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
			if tt.actor != nil {
				req = req.WithContext(auth.WithActor(req.Context(), *tt.actor))
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedStatus == http.StatusOK, handlerCalled)
		})
	}
}

func TestRateLimit(t *testing.T) {
	handlerCalls := 0
	handler := RateLimit(1, 2, zerolog.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalls++
		w.WriteHeader(http.StatusOK)
	}))

	send := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/payments/momo/ipn", nil)
		req.RemoteAddr = addr
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send("10.0.0.1:4000"))
	assert.Equal(t, http.StatusOK, send("10.0.0.1:4001"))
	assert.Equal(t, http.StatusTooManyRequests, send("10.0.0.1:4002"))
	assert.Equal(t, http.StatusOK, send("10.0.0.2:4000"), "other clients have their own bucket")
	assert.Equal(t, 3, handlerCalls)
}

func TestLimiterStore_EvictsIdleClients(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	store := newLimiterStore(1, 1)
	store.now = func() time.Time { return now }

	assert.True(t, store.allow("a"))
	assert.False(t, store.allow("a"))

	now = now.Add(2 * limiterIdleTTL)
	assert.True(t, store.allow("b"))

	store.mu.Lock()
	_, kept := store.clients["a"]
	store.mu.Unlock()
	assert.False(t, kept)
}

func TestRequestID(t *testing.T) {
	t.Run("Generates an id", func(t *testing.T) {
		var seen string
		handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = RequestIDFrom(r.Context())
		}))

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Len(t, seen, 36)
		assert.Equal(t, seen, w.Header().Get(RequestIDHeader))
	})

	t.Run("Reuses incoming id", func(t *testing.T) {
		var seen string
		handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = RequestIDFrom(r.Context())
		}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "trace-abc")
		handler.ServeHTTP(httptest.NewRecorder(), req)

		assert.Equal(t, "trace-abc", seen)
	})
}

func TestLogging(t *testing.T) {
	logger := zerolog.Nop()

	tests := []struct {
		name           string
		method         string
		path           string
		handlerStatus  int
		expectedStatus int
	}{
		{
			name:           "Successful request",
			method:         http.MethodGet,
			path:           "/api/courses",
			handlerStatus:  http.StatusOK,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Not found request",
			method:         http.MethodGet,
			path:           "/api/unknown",
			handlerStatus:  http.StatusNotFound,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "Server error",
			method:         http.MethodPost,
			path:           "/api/orders",
			handlerStatus:  http.StatusInternalServerError,
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.handlerStatus)
			})

			handler := Logging(logger)(testHandler)

			req := httptest.NewRequest(tt.method, tt.path, nil)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestMetrics_UsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Metrics)
	r.Get("/api/courses/{courseID}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/courses/42", nil))

	assert.Equal(t, http.StatusTeapot, w.Code)
}

func TestRecovery(t *testing.T) {
	logger := zerolog.Nop()

	tests := []struct {
		name           string
		shouldPanic    bool
		panicValue     any
		expectedStatus int
	}{
		{
			name:           "No panic",
			shouldPanic:    false,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Panic with string",
			shouldPanic:    true,
			panicValue:     "something went wrong",
			expectedStatus: http.StatusInternalServerError,
		},
		{
			name:           "Panic with error",
			shouldPanic:    true,
			panicValue:     assert.AnError,
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.shouldPanic {
					panic(tt.panicValue)
				}
				w.WriteHeader(http.StatusOK)
			})

			handler := Recovery(logger)(testHandler)

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.shouldPanic {
				assert.Contains(t, w.Body.String(), "internal server error")
			}
		})
	}
}

func TestWriteError_IncludesRequestID(t *testing.T) {
	handler := RequestID(APIKeyAuth("k", zerolog.Nop())(http.NotFoundHandler()))

	req := httptest.NewRequest(http.MethodGet, "/internal/metrics", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	var body model.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, model.ErrCodeUnauthorised, body.Error)
	assert.Equal(t, "req-1", body.RequestID)
}
