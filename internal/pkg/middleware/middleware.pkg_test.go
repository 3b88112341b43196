package middleware

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	_type "idea-inbox/internal/common/type"
	"idea-inbox/internal/pkg/multipart"
	"io"
	mimemultipart "mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	e := gin.New()
	e.Use(RequestInit(), ResponseInit(false), CorsMiddleware(CorsOptions{
		AllowMethods: []string{http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{"Content-Type", HeaderIdempotencyKey},
	}), AccessLog())
	e.POST("/submit", handlers...)
	return e
}

func formBody(t *testing.T, fields map[string]string, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := mimemultipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for field, name := range files {
		fw, err := w.CreateFormFile(field, name)
		require.NoError(t, err)
		_, err = fw.Write([]byte("content of " + name))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func do(e http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func submissionEcho(c *gin.Context) {
	send := c.MustGet("send").(func(r *_type.Response))
	sub := c.MustGet("submission").(*_type.Submission)
	send(&_type.Response{Message: fmt.Sprintf("fields=%d files=%d", sub.Fields.Len(), len(sub.Attachments))})
}

func plainOK(c *gin.Context) {
	c.MustGet("send").(func(r *_type.Response))(&_type.Response{Message: "ok"})
}

func TestRequestInit(t *testing.T) {
	e := newEngine(plainOK)

	rec := do(e, httptest.NewRequest(http.MethodPost, "/submit", nil))
	_, err := uuid.Parse(rec.Header().Get(HeaderRequestID))
	assert.NoError(t, err)

	id := uuid.New().String()
	req := httptest.NewRequest(http.MethodPost, "/submit", nil)
	req.Header.Set(HeaderRequestID, id)
	rec = do(e, req)
	assert.Equal(t, id, rec.Header().Get(HeaderRequestID))

	req = httptest.NewRequest(http.MethodPost, "/submit", nil)
	req.Header.Set(HeaderRequestID, "not a uuid\r\n")
	rec = do(e, req)
	assert.NotEqual(t, "not a uuid\r\n", rec.Header().Get(HeaderRequestID))
}

func TestResponseInitFormats(t *testing.T) {
	e := gin.New()
	e.Use(RequestInit(), ResponseInit(false))
	e.GET("/text", func(c *gin.Context) {
		c.MustGet("send").(func(r *_type.Response))(&_type.Response{Message: "hello"})
	})
	e.GET("/json", func(c *gin.Context) {
		c.MustGet("send").(func(r *_type.Response))(&_type.Response{Data: gin.H{"status": "ok"}})
	})
	e.GET("/empty", func(c *gin.Context) {
		c.MustGet("send").(func(r *_type.Response))(&_type.Response{Code: http.StatusNoContent})
	})

	rec := do(e, httptest.NewRequest(http.MethodGet, "/text", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "hello", rec.Body.String())

	rec = do(e, httptest.NewRequest(http.MethodGet, "/json", nil))
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = do(e, httptest.NewRequest(http.MethodGet, "/empty", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestResponseInitErrorHeader(t *testing.T) {
	failing := func(c *gin.Context) {
		c.MustGet("send").(func(r *_type.Response))(&_type.Response{
			Code:  http.StatusInternalServerError,
			Error: errors.New("mkdir /home/ann/ideas: permission denied"),
		})
	}

	for _, mode := range []string{gin.DebugMode, gin.TestMode} {
		t.Run(mode, func(t *testing.T) {
			gin.SetMode(mode)
			t.Cleanup(func() { gin.SetMode(gin.TestMode) })

			hidden := gin.New()
			hidden.Use(RequestInit(), ResponseInit(false))
			hidden.GET("/", failing)
			rec := do(hidden, httptest.NewRequest(http.MethodGet, "/", nil))
			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			assert.Empty(t, rec.Header().Get(HeaderDebugError))

			exposed := gin.New()
			exposed.Use(RequestInit(), ResponseInit(true))
			exposed.GET("/", failing)
			rec = do(exposed, httptest.NewRequest(http.MethodGet, "/", nil))
			assert.Equal(t, "mkdir /home/ann/ideas: permission denied", rec.Header().Get(HeaderDebugError))
		})
	}
}

func TestCorsAndSecurityHeaders(t *testing.T) {
	rec := do(newEngine(plainOK), httptest.NewRequest(http.MethodPost, "/submit", nil))

	h := rec.Header()
	assert.Equal(t, "*", h.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "POST, OPTIONS", h.Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Content-Type, Idempotency-Key", h.Get("Access-Control-Allow-Headers"))
	assert.Equal(t, "nosniff", h.Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", h.Get("X-Frame-Options"))
	assert.Equal(t, "default-src 'self'", h.Get("Content-Security-Policy"))
}

func TestMultipartFormRejectsBadRequests(t *testing.T) {
	e := newEngine(MultipartFormMiddleware(1<<20, nil), submissionEcho)

	tests := []struct {
		name        string
		contentType string
		body        string
		want        string
	}{
		{name: "json", contentType: "application/json", body: `{}`, want: "Content-Type must be multipart/form-data"},
		{name: "missing content type", contentType: "", body: "", want: "Content-Type must be multipart/form-data"},
		{name: "no boundary", contentType: "multipart/form-data", body: "x", want: "Boundary not found"},
		{name: "boundary never found", contentType: "multipart/form-data; boundary=zz", body: "nothing here", want: "No multipart parts found"},
		{name: "nothing decodable", contentType: "multipart/form-data; boundary=zz", body: "--zz\r\n--zz--", want: "No multipart parts found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/submit", strings.NewReader(tt.body))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			rec := do(e, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.want, rec.Body.String())
		})
	}
}

func TestDecodeFailure(t *testing.T) {
	resp := decodeFailure(fmt.Errorf("reading part: %w", multipart.ErrMissingBoundary))
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "Boundary not found", resp.Message)

	resp = decodeFailure(multipart.ErrNoParts)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "No multipart parts found", resp.Message)

	resp = decodeFailure(errors.New("out of memory"))
	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Equal(t, "Internal Server Error", resp.Message)
}

func TestMultipartFormDecodes(t *testing.T) {
	e := newEngine(MultipartFormMiddleware(1<<20, nil), submissionEcho)

	body, contentType := formBody(t, map[string]string{"name": "Ann", "ideaName": "Widget"}, map[string]string{"photo": "a.png"})
	req := httptest.NewRequest(http.MethodPost, "/submit", body)
	req.Header.Set("Content-Type", contentType)

	rec := do(e, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "fields=2 files=1", rec.Body.String())
}

func TestMultipartFormTooLarge(t *testing.T) {
	e := newEngine(MultipartFormMiddleware(64, nil), submissionEcho)

	body, contentType := formBody(t, map[string]string{"story": strings.Repeat("x", 1024)}, nil)
	req := httptest.NewRequest(http.MethodPost, "/submit", body)
	req.Header.Set("Content-Type", contentType)

	rec := do(e, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, "Request body too large", rec.Body.String())
}

func TestMultipartFormFieldLimits(t *testing.T) {
	e := newEngine(MultipartFormMiddleware(1<<20, []FieldOpts{{Name: "photo", Min: 1, Max: 1}}), submissionEcho)

	body, contentType := formBody(t, map[string]string{"name": "Ann"}, nil)
	req := httptest.NewRequest(http.MethodPost, "/submit", body)
	req.Header.Set("Content-Type", contentType)
	rec := do(e, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Minimum photo is 1", rec.Body.String())

	var buf bytes.Buffer
	w := mimemultipart.NewWriter(&buf)
	for i := 0; i < 2; i++ {
		fw, err := w.CreateFormFile("photo", fmt.Sprintf("p%d.png", i))
		require.NoError(t, err)
		_, _ = io.WriteString(fw, "x")
	}
	require.NoError(t, w.Close())
	req = httptest.NewRequest(http.MethodPost, "/submit", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec = do(e, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Maximum photo is 1", rec.Body.String())
}

type memoryStore struct {
	mu     sync.Mutex
	values map[string]string
	ttls   map[string]time.Duration
	err    error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{values: make(map[string]string), ttls: make(map[string]time.Duration)}
}

func (m *memoryStore) Ping(context.Context) error { return m.err }

func (m *memoryStore) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", false, m.err
	}
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *memoryStore) Set(_ context.Context, key string, value []byte, expiration time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.values[key] = string(value)
	m.ttls[key] = expiration
	return nil
}

func (m *memoryStore) SetNX(_ context.Context, key string, value []byte, expiration time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	if _, ok := m.values[key]; ok {
		return false, nil
	}
	m.values[key] = string(value)
	m.ttls[key] = expiration
	return true, nil
}

func (m *memoryStore) Del(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return m.err
}

func (m *memoryStore) Close() error { return nil }

func countingHandler(calls *int, code int) gin.HandlerFunc {
	return func(c *gin.Context) {
		*calls++
		c.MustGet("send").(func(r *_type.Response))(&_type.Response{Code: code, Message: fmt.Sprintf("call %d", *calls)})
	}
}

func postWithKey(key string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/submit", nil)
	if key != "" {
		req.Header.Set(HeaderIdempotencyKey, key)
	}
	return req
}

func TestIdempotencyReplaysSuccess(t *testing.T) {
	store := newMemoryStore()
	calls := 0
	e := newEngine(IdempotencyMiddleware(store, time.Hour, 0), countingHandler(&calls, http.StatusOK))

	first := do(e, postWithKey("k-1"))
	assert.Equal(t, "call 1", first.Body.String())
	assert.Empty(t, first.Header().Get(HeaderIdempotencyReplayed))

	second := do(e, postWithKey("k-1"))
	assert.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "call 1", second.Body.String())
	assert.Equal(t, "true", second.Header().Get(HeaderIdempotencyReplayed))
	assert.Equal(t, 1, calls)

	third := do(e, postWithKey("k-2"))
	assert.Equal(t, "call 2", third.Body.String())

	do(e, postWithKey(""))
	do(e, postWithKey(""))
	assert.Equal(t, 4, calls, "requests without a key are never replayed")
}

func TestIdempotencyReleasesKeyOnFailure(t *testing.T) {
	store := newMemoryStore()
	calls := 0
	e := newEngine(IdempotencyMiddleware(store, time.Hour, 0), countingHandler(&calls, http.StatusInternalServerError))

	do(e, postWithKey("k"))
	do(e, postWithKey("k"))
	assert.Equal(t, 2, calls)
	assert.Empty(t, store.values)
}

func TestIdempotencyInProgressConflict(t *testing.T) {
	store := newMemoryStore()
	store.values[IdempotencyStoreKey("/submit", "k")] = idempotencyPending
	calls := 0
	e := newEngine(IdempotencyMiddleware(store, time.Hour, 0), countingHandler(&calls, http.StatusOK))

	rec := do(e, postWithKey("k"))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, 0, calls)
}

func TestIdempotencyPendingTTL(t *testing.T) {
	tests := []struct {
		name       string
		pendingTTL time.Duration
		want       time.Duration
	}{
		{name: "request budget", pendingTTL: 4 * time.Minute, want: 4 * time.Minute},
		{name: "default", pendingTTL: 0, want: DefaultIdempotencyPendingTTL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemoryStore()
			var reserved time.Duration
			inFlight := func(c *gin.Context) {
				store.mu.Lock()
				reserved = store.ttls[IdempotencyStoreKey("/submit", "k")]
				store.mu.Unlock()
				plainOK(c)
			}
			e := newEngine(IdempotencyMiddleware(store, time.Hour, tt.pendingTTL), inFlight)

			rec := do(e, postWithKey("k"))
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.want, reserved)
			assert.Equal(t, time.Hour, store.ttls[IdempotencyStoreKey("/submit", "k")])
		})
	}
}

func TestIdempotencyFailsOpen(t *testing.T) {
	store := newMemoryStore()
	store.err = errors.New("connection refused")
	calls := 0
	e := newEngine(IdempotencyMiddleware(store, time.Hour, 0), countingHandler(&calls, http.StatusOK))

	do(e, postWithKey("k"))
	do(e, postWithKey("k"))
	assert.Equal(t, 2, calls)
}

func TestIdempotencyStoreKeyIsScopedByPath(t *testing.T) {
	a := IdempotencyStoreKey("/submit", "k")
	assert.Equal(t, a, IdempotencyStoreKey("/submit", "k"))
	assert.NotEqual(t, a, IdempotencyStoreKey("/other", "k"))
	assert.Len(t, a, len("idempotency:")+64)
}
