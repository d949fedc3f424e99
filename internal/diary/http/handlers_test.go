package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kazoku-nikki/family-diary-backend/internal/auth"
	"github.com/kazoku-nikki/family-diary-backend/internal/diary/domain"
	diaryhttp "github.com/kazoku-nikki/family-diary-backend/internal/diary/http"
	"github.com/kazoku-nikki/family-diary-backend/internal/diary/store"
	"github.com/kazoku-nikki/family-diary-backend/internal/diary/sync"
)

func setupRouter(t *testing.T) (*gin.Engine, *store.Store, *sync.Adapter) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st := store.New()
	mem := sync.NewMemoryStore(store.SeedEntries())
	a := sync.New(mem, st)
	a.Start(domain.User{ID: "demo-user"})
	t.Cleanup(a.Stop)

	require.Eventually(t, func() bool { return st.Len() == 2 }, 2*time.Second, 5*time.Millisecond)

	r := gin.New()
	api := r.Group("/api/v1")
	api.Use(auth.OptionalUser())
	diaryhttp.New(st, a, nil).Register(api)
	return r, st, a
}

func doJSON(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestListEntries(t *testing.T) {
	r, _, _ := setupRouter(t)

	w := doJSON(r, http.MethodGet, "/api/v1/entries", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		OK      bool                `json:"ok"`
		Entries []domain.DiaryEntry `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.OK)
	require.Len(t, resp.Entries, 2)
	assert.Equal(t, "seed-entry-1", resp.Entries[0].ID)
}

func TestCreateEntry(t *testing.T) {
	r, st, _ := setupRouter(t)

	w := doJSON(r, http.MethodPost, "/api/v1/entries", map[string]string{
		"title":       "運動会",
		"content":     "かけっこで一位になった",
		"category_id": "cat2",
		"event_date":  "2024-09-15",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		OK bool   `json:"ok"`
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.ID)

	require.Eventually(t, func() bool { return st.Len() == 3 }, 2*time.Second, 5*time.Millisecond)
	got := st.List()
	assert.Equal(t, resp.ID, got[0].ID)
	assert.Equal(t, "demo-user", got[0].AuthorID)
}

func TestCreateEntryValidation(t *testing.T) {
	r, _, _ := setupRouter(t)

	w := doJSON(r, http.MethodPost, "/api/v1/entries", map[string]string{
		"title":   "  ",
		"content": "body",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "title")
}

func TestToggleLikeEndpoint(t *testing.T) {
	r, st, _ := setupRouter(t)

	w := doJSON(r, http.MethodPost, "/api/v1/entries/seed-entry-2/like", nil)
	require.Equal(t, http.StatusOK, w.Code)

	require.Eventually(t, func() bool {
		e, err := st.Get("seed-entry-2")
		return err == nil && e.IsLiked && e.LikeCount == 4
	}, 2*time.Second, 5*time.Millisecond)

	w = doJSON(r, http.MethodPost, "/api/v1/entries/missing/like", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAddCommentEndpoint(t *testing.T) {
	r, st, _ := setupRouter(t)

	w := doJSON(r, http.MethodPost, "/api/v1/entries/seed-entry-2/comments", map[string]string{
		"content": "おめでとう！",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		OK      bool           `json:"ok"`
		Comment domain.Comment `json:"comment"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "おめでとう！", resp.Comment.Content)

	require.Eventually(t, func() bool {
		e, err := st.Get("seed-entry-2")
		return err == nil && e.CommentCount == 1
	}, 2*time.Second, 5*time.Millisecond)

	w = doJSON(r, http.MethodPost, "/api/v1/entries/seed-entry-2/comments", map[string]string{"content": "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPost, "/api/v1/entries/missing/comments", map[string]string{"content": "hi"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSelectViewEndpoint(t *testing.T) {
	r, _, _ := setupRouter(t)

	w := doJSON(r, http.MethodGet, "/api/v1/views/home", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		OK   bool `json:"ok"`
		View struct {
			View    string              `json:"view"`
			Found   bool                `json:"found"`
			Title   string              `json:"title"`
			Entries []domain.DiaryEntry `json:"entries"`
			User    *domain.User        `json:"user"`
		} `json:"view"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ホーム", resp.View.Title)
	assert.Len(t, resp.View.Entries, 2)
	require.NotNil(t, resp.View.User)
	assert.Equal(t, "demo-user", resp.View.User.ID)

	w = doJSON(r, http.MethodGet, "/api/v1/views/settings", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodGet, "/api/v1/views/unknown", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUploadImageWithoutBucket(t *testing.T) {
	r, _, _ := setupRouter(t)

	w := doJSON(r, http.MethodPost, "/api/v1/entries/seed-entry-1/images", nil)
	assert.Equal(t, http.StatusNotImplemented, w.Code)
}
