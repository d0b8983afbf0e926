package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ahmedtravel/playbook/internal/adapters/http/dto"
	"github.com/ahmedtravel/playbook/internal/mocks"
	"github.com/ahmedtravel/playbook/internal/platform/config"
	"github.com/ahmedtravel/playbook/internal/platform/logging"
	"github.com/ahmedtravel/playbook/internal/ports"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	return resp
}

func TestRequestID(t *testing.T) {
	tests := []struct {
		name     string
		inbound  string
		wantKeep bool
	}{
		{"generated when absent", "", false},
		{"inbound kept", "req-abc-123", true},
		{"oversized replaced", strings.Repeat("x", 200), false},
		{"whitespace replaced", "two words", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var fromGin, fromCtx string

			engine := gin.New()
			engine.Use(RequestID())
			engine.GET("/", func(c *gin.Context) {
				fromGin = GetRequestID(c)
				fromCtx = RequestIDFromContext(c.Request.Context())
				c.Status(http.StatusNoContent)
			})

			req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
			if tt.inbound != "" {
				req.Header.Set(HeaderRequestID, tt.inbound)
			}

			w := serve(engine, req)

			echoed := w.Header().Get(HeaderRequestID)
			assert.Equal(t, echoed, fromGin)
			assert.Equal(t, echoed, fromCtx)

			if tt.wantKeep {
				assert.Equal(t, tt.inbound, echoed)
			} else {
				_, err := uuid.Parse(echoed)
				assert.NoError(t, err)
			}
		})
	}
}

func TestCorrelationID_PropagatesToContextAndLogger(t *testing.T) {
	var buf bytes.Buffer

	base := slog.New(slog.NewJSONHandler(&buf, nil))

	engine := gin.New()
	engine.Use(func(c *gin.Context) {
		c.Request = c.Request.WithContext(logging.WithContext(c.Request.Context(), base))
	}, CorrelationID())
	engine.GET("/", func(c *gin.Context) {
		assert.Equal(t, "corr-1", GetCorrelationID(c))
		assert.Equal(t, "corr-1", CorrelationIDFromContext(c.Request.Context()))
		logging.FromContext(c.Request.Context()).Info("handled")
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
	req.Header.Set(HeaderCorrelationID, "corr-1")

	w := serve(engine, req)

	assert.Equal(t, "corr-1", w.Header().Get(HeaderCorrelationID))
	assert.Contains(t, buf.String(), `"correlation_id":"corr-1"`)
}

func TestIDsFromContext_NotSet(t *testing.T) {
	assert.Empty(t, RequestIDFromContext(context.Background()))
	assert.Empty(t, CorrelationIDFromContext(context.Background()))
}

func TestExtractClaims(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *config.AuthConfig
		headers map[string]string
		want    *Claims
	}{
		{
			name: "default headers",
			headers: map[string]string{
				"X-User-ID":     " agent-7 ",
				"X-User-Roles":  "agent, catalog-admin,,",
				"X-User-Scopes": "catalog:write",
			},
			want: &Claims{
				Subject: "agent-7",
				Roles:   []string{"agent", "catalog-admin"},
			},
		},
		{
			name:    "configured headers",
			cfg:     &config.AuthConfig{SubjectHeader: "X-Agent", RolesHeader: "X-Agent-Roles"},
			headers: map[string]string{"X-Agent": "agent-9", "X-Agent-Roles": "supervisor", "X-User-ID": "ignored"},
			want:    &Claims{Subject: "agent-9", Roles: []string{"supervisor"}},
		},
		{
			name: "anonymous",
			want: &Claims{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/", http.NoBody)

			for k, v := range tt.headers {
				c.Request.Header.Set(k, v)
			}

			got := ExtractClaims(c, tt.cfg)

			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIdentity(t *testing.T) {
	tests := []struct {
		name      string
		subject   string
		scoped    bool
		wantOwner string
		wantUser  bool
	}{
		{name: "anonymous shares the list", wantOwner: ""},
		{name: "agent with shared lists", subject: "agent-7", scoped: false, wantOwner: "", wantUser: true},
		{name: "agent with scoped lists", subject: "agent-7", scoped: true, wantOwner: "agent-7", wantUser: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flags := mocks.NewMockFeatureFlags(t)
			if tt.subject != "" {
				flags.On("IsEnabled", mock.Anything, ports.FlagAgentScopedLists, false).Return(tt.scoped)
			}

			var (
				owner string
				user  *ports.FeatureFlagUser
			)

			engine := gin.New()
			engine.Use(Identity(&config.AuthConfig{}, flags))
			engine.GET("/", func(c *gin.Context) {
				owner = Owner(c)
				user = ports.GetFeatureFlagUser(c.Request.Context())
				require.NotNil(t, GetClaims(c))
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
			if tt.subject != "" {
				req.Header.Set("X-User-ID", tt.subject)
				req.Header.Set("X-User-Roles", "agent")
			}

			serve(engine, req)

			assert.Equal(t, tt.wantOwner, owner)

			if tt.wantUser {
				require.NotNil(t, user)
				assert.Equal(t, tt.subject, user.ID)
				assert.Equal(t, []string{"agent"}, user.Roles)
			} else {
				assert.Nil(t, user)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name       string
		headers    map[string]string
		wantStatus int
		wantCode   string
	}{
		{
			name:       "anonymous",
			wantStatus: http.StatusUnauthorized,
			wantCode:   dto.ErrorCodeUnauthorized,
		},
		{
			name:       "missing role",
			headers:    map[string]string{"X-User-ID": "agent-7", "X-User-Roles": "agent"},
			wantStatus: http.StatusForbidden,
			wantCode:   dto.ErrorCodeForbidden,
		},
		{
			name:       "admin",
			headers:    map[string]string{"X-User-ID": "ops-1", "X-User-Roles": "agent,catalog-admin"},
			wantStatus: http.StatusNoContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.AuthConfig{AdminRole: "catalog-admin"}

			engine := gin.New()
			engine.Use(Identity(cfg, nil))
			engine.POST("/catalog/products", RequireRole(cfg, cfg.AdminRole), func(c *gin.Context) {
				c.Status(http.StatusNoContent)
			})

			req := httptest.NewRequest(http.MethodPost, "/catalog/products", http.NoBody)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}

			w := serve(engine, req)

			assert.Equal(t, tt.wantStatus, w.Code)

			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decodeError(t, w).Error.Code)
			}
		})
	}
}

func TestRateLimiter_Allow(t *testing.T) {
	now := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)

	l := NewRateLimiter(config.RateLimitConfig{Enabled: true, RPS: 1, Burst: 2})
	l.now = func() time.Time { return now }

	ok, _ := l.Allow("agent:a")
	assert.True(t, ok)
	ok, _ = l.Allow("agent:a")
	assert.True(t, ok)

	ok, wait := l.Allow("agent:a")
	assert.False(t, ok)
	assert.InDelta(t, time.Second, wait, float64(10*time.Millisecond))

	ok, _ = l.Allow("agent:b")
	assert.True(t, ok, "buckets are per client")

	now = now.Add(time.Second)

	ok, _ = l.Allow("agent:a")
	assert.True(t, ok, "token refills after 1/rps")
}

func TestRateLimiter_SweepsIdleClients(t *testing.T) {
	now := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)

	l := NewRateLimiter(config.RateLimitConfig{RPS: 5, Burst: 5})
	l.now = func() time.Time { return now }

	l.Allow("ip:10.0.0.1")
	require.Len(t, l.clients, 1)

	now = now.Add(limiterIdleTTL + limiterSweepInterval)
	l.Allow("ip:10.0.0.2")

	assert.Len(t, l.clients, 1)
	assert.Contains(t, l.clients, "ip:10.0.0.2")
}

func TestRateLimiter_Middleware(t *testing.T) {
	l := NewRateLimiter(config.RateLimitConfig{Enabled: true, RPS: 0.001, Burst: 1})

	engine := gin.New()
	engine.Use(Identity(nil, nil), l.Middleware())
	engine.GET("/api/v1/tours", func(c *gin.Context) { c.Status(http.StatusOK) })
	engine.GET("/-/live", func(c *gin.Context) { c.Status(http.StatusOK) })

	first := serve(engine, httptest.NewRequest(http.MethodGet, "/api/v1/tours", http.NoBody))
	assert.Equal(t, http.StatusOK, first.Code)

	second := serve(engine, httptest.NewRequest(http.MethodGet, "/api/v1/tours", http.NoBody))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.NotEmpty(t, second.Header().Get("Retry-After"))
	assert.Equal(t, dto.ErrorCodeRateLimited, decodeError(t, second).Error.Code)

	for range 3 {
		assert.Equal(t, http.StatusOK, serve(engine, httptest.NewRequest(http.MethodGet, "/-/live", http.NoBody)).Code)
	}
}

func TestLogging(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		status    int
		wantLevel string
		wantLog   bool
	}{
		{"success at info", "/api/v1/tours", http.StatusOK, "INFO", true},
		{"client error at warn", "/api/v1/tours", http.StatusNotFound, "WARN", true},
		{"server error at error", "/api/v1/tours", http.StatusBadGateway, "ERROR", true},
		{"ops routes skipped", "/-/ready", http.StatusOK, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			logger := slog.New(slog.NewJSONHandler(&buf, nil))

			engine := gin.New()
			engine.Use(func(c *gin.Context) {
				c.Request = c.Request.WithContext(logging.WithContext(c.Request.Context(), logger))
			}, Logging())
			engine.GET(tt.path, func(c *gin.Context) { c.Status(tt.status) })

			serve(engine, httptest.NewRequest(http.MethodGet, tt.path, http.NoBody))

			if !tt.wantLog {
				assert.Empty(t, buf.String())
				return
			}

			var entry map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			assert.Equal(t, tt.wantLevel, entry["level"])
			assert.Equal(t, "request completed", entry["msg"])
			assert.InDelta(t, tt.status, entry["status"], 0)
			assert.Equal(t, tt.path, entry["route"])
		})
	}
}

func TestRecovery(t *testing.T) {
	engine := gin.New()
	engine.Use(Recovery())
	engine.GET("/boom", func(*gin.Context) { panic("kaboom") })

	w := serve(engine, httptest.NewRequest(http.MethodGet, "/boom", http.NoBody))

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	resp := decodeError(t, w)
	assert.Equal(t, dto.ErrorCodeInternal, resp.Error.Code)
	assert.NotContains(t, w.Body.String(), "kaboom")
}

func TestTimeout(t *testing.T) {
	tests := []struct {
		name       string
		handler    gin.HandlerFunc
		wantStatus int
	}{
		{
			name:       "fast handler",
			handler:    func(c *gin.Context) { c.Status(http.StatusOK) },
			wantStatus: http.StatusOK,
		},
		{
			name: "slow handler that honors ctx and writes nothing",
			handler: func(c *gin.Context) {
				<-c.Request.Context().Done()
			},
			wantStatus: http.StatusGatewayTimeout,
		},
		{
			name: "slow handler that answers itself",
			handler: func(c *gin.Context) {
				<-c.Request.Context().Done()
				dto.HandleError(c, c.Request.Context().Err())
			},
			wantStatus: http.StatusGatewayTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := gin.New()
			engine.Use(Timeout(20 * time.Millisecond))
			engine.GET("/", tt.handler)

			w := serve(engine, httptest.NewRequest(http.MethodGet, "/", http.NoBody))

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestTimeout_SetsDeadline(t *testing.T) {
	engine := gin.New()
	engine.Use(Timeout(time.Minute))
	engine.GET("/", func(c *gin.Context) {
		deadline, ok := c.Request.Context().Deadline()
		assert.True(t, ok)
		assert.WithinDuration(t, time.Now().Add(time.Minute), deadline, 5*time.Second)
		c.Status(http.StatusOK)
	})

	serve(engine, httptest.NewRequest(http.MethodGet, "/", http.NoBody))
}
