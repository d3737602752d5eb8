package api

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"

	"github.com/cinetag/cinetag-server/internal/auth"
	"github.com/cinetag/cinetag-server/internal/events"
	"github.com/cinetag/cinetag-server/internal/logger"
	"github.com/cinetag/cinetag-server/internal/media/images"
	"github.com/cinetag/cinetag-server/internal/ratelimit"
	"github.com/cinetag/cinetag-server/internal/service"
	"github.com/cinetag/cinetag-server/internal/store"
	"github.com/cinetag/cinetag-server/internal/validation"
)

// testEnvelope decodes both success and error envelopes.
type testEnvelope[T any] struct {
	Version int            `json:"v"`
	Success bool           `json:"success"`
	Data    T              `json:"data"`
	Error   string         `json:"error"`
	Code    string         `json:"code"`
	Details map[string]any `json:"details"`
}

type testServer struct {
	*Server
	api     humatest.TestAPI
	store   *store.BadgerStore
	objects *images.MemoryStore
	events  *events.Recorder
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()
	return setupTestServerWithOptions(t, Options{MetricsEnabled: true})
}

func setupTestServerWithOptions(t *testing.T, opts Options) *testServer {
	t.Helper()

	log := logger.Discard()

	st, err := store.New(filepath.Join(t.TempDir(), "db"), log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	authKey, err := auth.LoadOrGenerateKey(t.TempDir())
	require.NoError(t, err)
	tokenService, err := auth.NewTokenService(authKey, 15*time.Minute)
	require.NoError(t, err)

	limiter := ratelimit.New(1, 100, 0)
	t.Cleanup(limiter.Stop)

	objects := images.NewMemoryStore()
	recorder := events.NewRecorder()
	v := validation.New()

	services := &Services{
		Auth: service.NewAuthService(st, tokenService, limiter, v, log),
		Post: service.NewPostService(st, images.NewProcessor(objects, 0, log), recorder, v, log),
		Tag:  service.NewTagService(st, v, log),
		User: service.NewUserService(st, log),
	}

	opts.Images = objects
	s := NewServer(st, services, opts, log)

	return &testServer{
		Server:  s,
		api:     humatest.Wrap(t, s.api),
		store:   st,
		objects: objects,
		events:  recorder,
	}
}

// register creates an account and returns its access token and user ID.
func (ts *testServer) register(t *testing.T, name string) (token, userID string) {
	t.Helper()

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"name":     name,
		"email":    name + "@example.com",
		"password": "hunter22",
	})
	require.Equal(t, http.StatusCreated, resp.Code, "register failed: %s", resp.Body.String())

	env := decode[AuthResponse](t, resp)
	return env.Data.AccessToken, env.Data.User.ID
}

// createPost creates a post owned by the token's user.
func (ts *testServer) createPost(t *testing.T, token, movie string) PostResponse {
	t.Helper()

	resp := ts.api.Post("/api/v1/posts", bearer(token), map[string]any{
		"movie_name": movie,
		"summary":    "A short summary.",
		"genre":      []string{"Drama"},
	})
	require.Equal(t, http.StatusCreated, resp.Code, "create post failed: %s", resp.Body.String())

	return decode[PostResponse](t, resp).Data
}

func bearer(token string) string {
	return "Authorization: Bearer " + token
}

func decode[T any](t *testing.T, resp *httptest.ResponseRecorder) testEnvelope[T] {
	t.Helper()

	var env testEnvelope[T]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &env), "body: %s", resp.Body.String())
	require.Equal(t, EnvelopeVersion, env.Version)
	return env
}

func pngBytes(t *testing.T) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 8, 6))
	for x := range 8 {
		for y := range 6 {
			img.Set(x, y, color.RGBA{R: uint8(x * 30), G: uint8(y * 40), B: 90, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}
