package middleware_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"adaptix-hrms/internal/domain"
	"adaptix-hrms/internal/middleware"
	"adaptix-hrms/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *apiError       `json:"error"`
}

func decodeEnvelope(t *testing.T, body []byte) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	assert.NoError(t, json.Unmarshal(body, &env))
	return env
}

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString([]byte(secret))
	assert.NoError(t, err)
	return s
}

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	t.Setenv("JWT_SECRET", "test-secret")

	newRouter := func() *gin.Engine {
		r := gin.New()
		r.GET("/me", middleware.AuthMiddleware(), func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"company_id":     c.GetString("company_id"),
				"employee_id":    c.GetString("employee_id"),
				"ctx_company_id": contextutil.GetCompanyID(c.Request.Context()),
			})
		})
		return r
	}

	t.Run("success sets tenant from claims", func(t *testing.T) {
		token := signToken(t, "test-secret", jwt.MapClaims{
			"user_id":     "user-1",
			"company_id":  "company-1",
			"employee_id": "employee-1",
			"exp":         time.Now().Add(time.Hour).Unix(),
		})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		newRouter().ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var body map[string]string
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "company-1", body["company_id"])
		assert.Equal(t, "employee-1", body["employee_id"])
		assert.Equal(t, "company-1", body["ctx_company_id"])
	})

	t.Run("negative missing token", func(t *testing.T) {
		w := httptest.NewRecorder()
		newRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.Equal(t, "UNAUTHORIZED", env.Error.Code)
	})

	t.Run("negative token without company", func(t *testing.T) {
		token := signToken(t, "test-secret", jwt.MapClaims{
			"user_id":     "user-1",
			"employee_id": "employee-1",
		})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		newRouter().ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.Equal(t, "Company ID not found in token", env.Error.Message)
	})

	t.Run("negative expired token", func(t *testing.T) {
		token := signToken(t, "test-secret", jwt.MapClaims{
			"user_id":     "user-1",
			"company_id":  "company-1",
			"employee_id": "employee-1",
			"exp":         time.Now().Add(-time.Hour).Unix(),
		})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		newRouter().ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.Equal(t, "TOKEN_EXPIRED", env.Error.Code)
	})

	t.Run("negative wrong secret", func(t *testing.T) {
		token := signToken(t, "other-secret", jwt.MapClaims{
			"user_id":     "user-1",
			"company_id":  "company-1",
			"employee_id": "employee-1",
		})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		newRouter().ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.Equal(t, "INVALID_TOKEN", env.Error.Code)
	})
}

type fakeEnforcer struct {
	allowed bool
	err     error
	got     domain.EnforceRequest
}

func (f *fakeEnforcer) Enforce(req domain.EnforceRequest) (bool, error) {
	f.got = req
	return f.allowed, f.err
}

func TestRBACAuthorize(t *testing.T) {
	gin.SetMode(gin.TestMode)

	run := func(enforcer *fakeEnforcer, withAuth bool) *httptest.ResponseRecorder {
		r := gin.New()
		r.POST("/x", func(c *gin.Context) {
			if withAuth {
				c.Set("employee_id", "employee-1")
				c.Set("company_id", "company-1")
			}
			c.Next()
		}, middleware.RBACAuthorize(enforcer, "leave_allocation", "approve"), func(c *gin.Context) {
			c.Status(http.StatusNoContent)
		})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/x", nil))
		return w
	}

	t.Run("allowed", func(t *testing.T) {
		enforcer := &fakeEnforcer{allowed: true}
		w := run(enforcer, true)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "leave_allocation", enforcer.got.Resource)
		assert.Equal(t, "approve", enforcer.got.Action)
		assert.Equal(t, "company-1", enforcer.got.CompanyID)
	})

	t.Run("forbidden", func(t *testing.T) {
		w := run(&fakeEnforcer{allowed: false}, true)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "FORBIDDEN", decodeEnvelope(t, w.Body.Bytes()).Error.Code)
	})

	t.Run("missing auth context", func(t *testing.T) {
		w := run(&fakeEnforcer{allowed: true}, false)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("enforcer error is internal", func(t *testing.T) {
		w := run(&fakeEnforcer{err: errors.New("policy load failed")}, true)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "Internal server error", decodeEnvelope(t, w.Body.Bytes()).Error.Message)
	})
}

func TestIdempotency(t *testing.T) {
	gin.SetMode(gin.TestMode)
	const cacheKey = "idemp:/run:user-1:key-1"

	newRouter := func(handlerCalls *int) (*gin.Engine, redismock.ClientMock) {
		rdb, mock := redismock.NewClientMock()
		r := gin.New()
		r.POST("/run", func(c *gin.Context) {
			c.Set("user_id", "user-1")
			c.Next()
		}, middleware.Idempotency(rdb), func(c *gin.Context) {
			*handlerCalls++
			c.Status(http.StatusCreated)
		})
		return r, mock
	}

	t.Run("replays cached result", func(t *testing.T) {
		calls := 0
		r, mock := newRouter(&calls)
		mock.ExpectGet(cacheKey).SetVal(`{"allocations_created":5}`)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/run", nil)
		req.Header.Set("Idempotency-Key", "key-1")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 0, calls)
		assert.Equal(t, "true", w.Header().Get("Idempotent-Replayed"))
		assert.JSONEq(t, `{"allocations_created":5}`, string(decodeEnvelope(t, w.Body.Bytes()).Data))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects concurrent duplicate", func(t *testing.T) {
		calls := 0
		r, mock := newRouter(&calls)
		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(cacheKey+":lock", "locked", 30*time.Second).SetVal(false)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/run", nil)
		req.Header.Set("Idempotency-Key", "key-1")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, 0, calls)
		assert.Equal(t, "PROCESSING", decodeEnvelope(t, w.Body.Bytes()).Error.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("first request runs and releases lock", func(t *testing.T) {
		calls := 0
		r, mock := newRouter(&calls)
		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(cacheKey+":lock", "locked", 30*time.Second).SetVal(true)
		mock.ExpectDel(cacheKey + ":lock").SetVal(1)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/run", nil)
		req.Header.Set("Idempotency-Key", "key-1")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, 1, calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no key passes through", func(t *testing.T) {
		calls := 0
		r, mock := newRouter(&calls)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/run", nil))

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, 1, calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRateLimitByUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x", func(c *gin.Context) {
		c.Set("user_id", "user-1")
		c.Next()
	}, middleware.RateLimitByUser(0.001, 1), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w1 := httptest.NewRecorder()
	r.ServeHTTP(w1, httptest.NewRequest(http.MethodGet, "/x", nil))
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, http.StatusOK, w1.Code)
	assert.Equal(t, http.StatusTooManyRequests, w2.Code)
}
