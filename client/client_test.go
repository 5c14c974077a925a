package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"daily/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func TestLoginStoresTokenAndSendsBearer(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "alice", body["username"])
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data":    map[string]any{"token": "tok-1", "user": map[string]any{"id": "u1", "username": "alice"}},
		})
	})
	mux.HandleFunc("GET /api/auth/profile", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": map[string]any{"id": "u1", "username": "alice"}})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := New(srv.URL + "/")
	res, err := c.Login(context.Background(), "alice", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", res.Token)
	assert.Equal(t, "tok-1", c.Tokens().Token())

	user, err := c.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
}

func TestUnauthorizedClearsTokenAndCallsHook(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "message": "登录已过期", "reason": "expired"})
	}))
	defer srv.Close()

	store := &MemoryTokenStore{}
	store.SetToken("old")
	called := 0
	c := New(srv.URL, WithTokenStore(store), WithOnUnauthorized(func() { called++ }))

	_, err := c.Bills().Get(context.Background(), "b1")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "expired", apiErr.Reason)
	assert.Empty(t, store.Token())
	assert.Equal(t, 1, called)
}

func TestValidationErrorFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"message": "参数错误",
			"errors":  []map[string]string{{"field": "amount", "message": "不能小于 0"}},
		})
	}))
	defer srv.Close()

	_, err := New(srv.URL).Bills().Create(context.Background(), map[string]any{"amount": -1})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	require.Len(t, apiErr.Fields, 1)
	assert.Equal(t, "amount", apiErr.Fields[0].Field)
	assert.Contains(t, apiErr.Error(), "参数错误")
}

func TestNonJSONErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	err := New(srv.URL).Todos().Delete(context.Background(), "t1")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
}

func TestListPassesQueryAndReadsPagination(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/diaries", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "3", q.Get("page"))
		assert.Equal(t, "10", q.Get("limit"))
		assert.Equal(t, "happy", q.Get("mood"))
		assert.False(t, q.Has("search"))
		writeJSON(w, http.StatusOK, map[string]any{
			"success":    true,
			"data":       []map[string]any{{"id": "d1", "title": "周末"}},
			"pagination": map[string]any{"page": 3, "limit": 10, "total": 25, "pages": 3},
		})
	}))
	defer srv.Close()

	items, page, err := New(srv.URL).Diaries().List(context.Background(), ListParams{
		Page: 3, Limit: 10, Filters: map[string]string{"mood": models.MoodHappy},
	})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "周末", items[0].Title)
	assert.Equal(t, Pagination{Page: 3, Limit: 10, Total: 25, Pages: 3}, page)
}

func TestSubRoutes(t *testing.T) {
	var (
		mu    sync.Mutex
		paths []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.Method+" "+r.URL.Path)
		mu.Unlock()
		switch r.URL.Path {
		case "/api/friends/birthdays":
			assert.Equal(t, "7", r.URL.Query().Get("days"))
			writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": []any{}})
		case "/api/foods/favorites":
			assert.Equal(t, "5", r.URL.Query().Get("limit"))
			assert.Equal(t, "0", r.URL.Query().Get("minRating"))
			assert.False(t, r.URL.Query().Has("minCount"))
			writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": []map[string]any{{"name": "牛肉面", "count": 3, "avgRating": 4.67}}})
		default:
			writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": map[string]any{"id": "x"}})
		}
	}))
	defer srv.Close()

	ctx := context.Background()
	c := New(srv.URL)
	_, err := c.ToggleTodo(ctx, "t1")
	require.NoError(t, err)
	_, err = c.ToggleTodoDetail(ctx, "t1", "d1")
	require.NoError(t, err)
	_, err = c.AddContact(ctx, "f1", models.Contact{Type: "phone", Value: "123"})
	require.NoError(t, err)
	_, err = c.RemoveContact(ctx, "f1", "c1")
	require.NoError(t, err)
	_, err = c.TouchContact(ctx, "f1")
	require.NoError(t, err)
	birthdays, err := c.Birthdays(ctx, 7)
	require.NoError(t, err)
	assert.Empty(t, birthdays)
	anyRating := 0.0
	favorites, err := c.FoodFavorites(ctx, 5, 0, &anyRating)
	require.NoError(t, err)
	require.Len(t, favorites, 1)
	assert.Equal(t, 4.67, favorites[0].AvgRating)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{
		"PATCH /api/todos/t1/toggle",
		"PATCH /api/todos/t1/details/d1/toggle",
		"POST /api/friends/f1/contacts",
		"DELETE /api/friends/f1/contacts/c1",
		"PATCH /api/friends/f1/contact",
		"GET /api/friends/birthdays",
		"GET /api/foods/favorites",
	}, paths)
}

func TestLogoutClearsTokenEvenOnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "message": "服务器内部错误"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	c.Tokens().SetToken("tok")
	assert.Error(t, c.Logout(context.Background()))
	assert.Empty(t, c.Tokens().Token())
}
