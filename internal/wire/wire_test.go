package wire

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"movie-explorer/internal/data/docstore"
	"movie-explorer/internal/data/entity"
	"movie-explorer/internal/data/repository"
	"movie-explorer/internal/gateway/tmdb"
	"movie-explorer/internal/queue"
	"movie-explorer/internal/usecase"
	"movie-explorer/pkg/middleware"
	"movie-explorer/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testApp struct {
	router     http.Handler
	store      *docstore.Memory
	config     *utils.Config
	dispatcher *queue.InlineDispatcher
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/trending/movie/week":
			w.Write([]byte(`{"results":[{"id":550}]}`))
		case strings.HasPrefix(r.URL.Path, "/movie/"):
			w.Write([]byte(`{"id":550,"title":"Fight Club","poster_path":"/fc.jpg"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(upstream.Close)

	config := &utils.Config{
		TMDB:     utils.TMDBConfig{APIKey: "k", BaseURL: upstream.URL},
		Identity: utils.IdentityConfig{Secret: "wire-test-secret"},
		Backfill: utils.BackfillConfig{Concurrency: 2},
	}
	log := zap.NewNop()

	store := docstore.NewMemory()
	require.NoError(t, store.EnsureIndexes(context.Background(), repository.Indexes()))
	repo := repository.NewRepository(store, nil, log)

	service := usecase.NewService(repo, tmdb.New(config.TMDB, log), config, log)
	dispatcher := queue.NewInlineDispatcher(service.Backfill, log)
	t.Cleanup(func() { dispatcher.Close() })

	app := Wiring(service, repo, dispatcher, config, log)
	return &testApp{router: app.Router, store: store, config: config, dispatcher: dispatcher}
}

func (a *testApp) token(t *testing.T, userID, tokenID string) string {
	t.Helper()
	raw, err := middleware.SignIdentityToken(a.config.Identity, &entity.Identity{UserID: userID, DisplayName: "Ana"}, tokenID, time.Hour)
	require.NoError(t, err)
	return raw
}

func (a *testApp) do(t *testing.T, method, target, token, body string) (*httptest.ResponseRecorder, utils.Response) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)

	var resp utils.Response
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	}
	return rec, resp
}

func TestRootAndHealth(t *testing.T) {
	app := newTestApp(t)

	rec, _ := app.do(t, http.MethodGet, "/", "", "")
	assert.Equal(t, "Movie Explorer API is running", rec.Body.String())

	rec, _ = app.do(t, http.MethodGet, "/health", "", "")
	assert.Equal(t, "OK", rec.Body.String())
}

func TestMovieProxyRoute(t *testing.T) {
	app := newTestApp(t)

	rec, _ := app.do(t, http.MethodGet, "/api/movies/trending", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"results":[{"id":550}]}`, rec.Body.String())
}

func TestReviewFlow(t *testing.T) {
	app := newTestApp(t)
	token := app.token(t, "u1", "jti-1")

	rec, _ := app.do(t, http.MethodPost, "/api/reviews", "", `{"movieId":550,"rating":4}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = app.do(t, http.MethodPost, "/api/reviews", token, `{"movieId":550,"rating":9}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = app.do(t, http.MethodPost, "/api/reviews", token, `{"movieId":550,"movieTitle":"Fight Club","rating":4,"comment":"rules"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, _ = app.do(t, http.MethodPost, "/api/reviews", token, `{"movieId":550,"rating":5}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, resp := app.do(t, http.MethodGet, "/api/movies/550/reviews", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	reviews, ok := resp.Data.([]any)
	require.True(t, ok)
	require.Len(t, reviews, 1)
	first := reviews[0].(map[string]any)
	assert.Equal(t, "u1", first["userId"])
	assert.Equal(t, "Ana", first["userName"])
	id := first["id"].(string)

	rec, _ = app.do(t, http.MethodPut, "/api/reviews/"+id, token, `{"rating":2}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = app.do(t, http.MethodPut, "/api/reviews/unknown", token, `{"rating":2}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, resp = app.do(t, http.MethodGet, "/api/movies/550/reviews/mine", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 2, resp.Data.(map[string]any)["rating"])

	rec, _ = app.do(t, http.MethodDelete, "/api/reviews/"+id, token, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, app.store.Len("reviews"))
}

func TestUpdateReviewReplacesFormFields(t *testing.T) {
	app := newTestApp(t)
	token := app.token(t, "u1", "jti-1")

	rec, _ := app.do(t, http.MethodPost, "/api/reviews", token, `{"movieId":550,"movieTitle":"Old","rating":3,"comment":"ok"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, resp := app.do(t, http.MethodGet, "/api/movies/550/reviews/mine", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	id := resp.Data.(map[string]any)["id"].(string)

	photo := "https://img.example/ana.png"
	renamed, err := middleware.SignIdentityToken(app.config.Identity,
		&entity.Identity{UserID: "u1", DisplayName: "Ana B", PhotoURL: &photo}, "jti-2", time.Hour)
	require.NoError(t, err)

	rec, _ = app.do(t, http.MethodPut, "/api/reviews/"+id, renamed,
		`{"movieTitle":"New","posterPath":"/p.jpg","rating":5,"comment":"better"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, resp = app.do(t, http.MethodGet, "/api/movies/550/reviews/mine", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	mine := resp.Data.(map[string]any)
	assert.Equal(t, "New", mine["movieTitle"])
	assert.Equal(t, "/p.jpg", mine["posterPath"])
	assert.EqualValues(t, 5, mine["rating"])
	assert.Equal(t, "better", mine["comment"])
	assert.Equal(t, "Ana B", mine["userName"])
	assert.Equal(t, photo, mine["userPhotoURL"])

	rec, _ = app.do(t, http.MethodPut, "/api/reviews/"+id, token, `{"posterPath":"/q.jpg"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, resp = app.do(t, http.MethodPut, "/api/reviews/"+id, token, `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Nothing to update", resp.Message)
}

func TestUserReviewsTriggersBackfill(t *testing.T) {
	app := newTestApp(t)
	token := app.token(t, "u1", "jti-1")

	rec, _ := app.do(t, http.MethodPost, "/api/reviews", token, `{"movieId":550,"rating":4}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, _ = app.do(t, http.MethodGet, "/api/user/reviews", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, app.dispatcher.Close())

	rec, resp := app.do(t, http.MethodGet, "/api/user/reviews", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	reviews := resp.Data.([]any)
	require.Len(t, reviews, 1)
	first := reviews[0].(map[string]any)
	assert.Equal(t, "/fc.jpg", first["posterPath"])
	assert.Equal(t, "https://image.tmdb.org/t/p/w500/fc.jpg", first["posterUrl"])
}

func TestSynchronousBackfill(t *testing.T) {
	app := newTestApp(t)
	token := app.token(t, "u1", "jti-1")

	rec, _ := app.do(t, http.MethodPost, "/api/reviews", token, `{"movieId":550,"rating":4}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, resp := app.do(t, http.MethodPost, "/api/reviews/backfill", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, resp.Data.(map[string]any)["updated"])
}

func TestWatchlistFlow(t *testing.T) {
	app := newTestApp(t)
	token := app.token(t, "u1", "jti-1")
	movie := `{"id":603,"title":"The Matrix","poster_path":"/m.jpg","release_date":"1999-03-30","vote_average":8.2}`

	rec, _ := app.do(t, http.MethodPost, "/api/watchlist", token, movie)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, _ = app.do(t, http.MethodPost, "/api/watchlist", token, movie)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, resp := app.do(t, http.MethodGet, "/api/watchlist/603", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	status := resp.Data.(map[string]any)
	assert.Equal(t, true, status["inWatchlist"])
	id := status["entry"].(map[string]any)["id"].(string)

	rec, resp = app.do(t, http.MethodGet, "/api/watchlist", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, resp.Data.([]any), 1)

	rec, _ = app.do(t, http.MethodDelete, "/api/watchlist/"+id, token, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, resp = app.do(t, http.MethodGet, "/api/watchlist/603", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, resp.Data.(map[string]any)["inWatchlist"])
}

func TestSignOutRevokesToken(t *testing.T) {
	app := newTestApp(t)
	token := app.token(t, "u1", "jti-1")

	rec, resp := app.do(t, http.MethodGet, "/api/auth/me", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u1", resp.Data.(map[string]any)["uid"])

	rec, _ = app.do(t, http.MethodPost, "/api/auth/signout", token, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = app.do(t, http.MethodGet, "/api/auth/me", token, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
