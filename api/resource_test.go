package api

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"daily/service"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBillHandler_CreateValidation(t *testing.T) {
	db, _ := newMockDB(t)
	h := NewBillHandler(service.NewBillService(db))
	r := newTestRouter(testUser)
	r.POST("/bills", h.Create)

	t.Run("缺少必填字段", func(t *testing.T) {
		w := perform(r, http.MethodPost, "/bills", `{}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decode(t, w)
		assert.Equal(t, false, resp["success"])
		assert.ElementsMatch(t, []string{"categoryId", "amount", "orderName", "spendingTime"}, fieldNames(resp))
	})

	t.Run("金额为负", func(t *testing.T) {
		w := perform(r, http.MethodPost, "/bills", `{"categoryId":"c1","amount":-1,"orderName":"午餐","spendingTime":"2024-01-15 12:30:00"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, []string{"amount"}, fieldNames(decode(t, w)))
	})

	t.Run("时间格式错误", func(t *testing.T) {
		w := perform(r, http.MethodPost, "/bills", `{"categoryId":"c1","amount":1,"orderName":"午餐","spendingTime":"yesterday"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, []string{"spendingTime"}, fieldNames(decode(t, w)))
	})

	t.Run("类型错误", func(t *testing.T) {
		w := perform(r, http.MethodPost, "/bills", `{"categoryId":"c1","amount":"abc","orderName":"午餐","spendingTime":"2024-01-15"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, []string{"amount"}, fieldNames(decode(t, w)))
	})

	t.Run("空请求体", func(t *testing.T) {
		w := perform(r, http.MethodPost, "/bills", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "请求体不是合法的 JSON", decode(t, w)["message"])
	})
}

func TestBillHandler_CreateZeroAmount(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `bill_categories`").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `bills`").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	h := NewBillHandler(service.NewBillService(db))
	r := newTestRouter(testUser)
	r.POST("/bills", h.Create)

	w := perform(r, http.MethodPost, "/bills", `{"categoryId":"c1","amount":0,"orderName":"赠品","spendingTime":"2024-01-15 12:30:00"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	resp := decode(t, w)
	assert.Equal(t, "创建成功", resp["message"])
	data := resp["data"].(map[string]any)
	assert.Equal(t, float64(0), data["amount"])
	assert.Equal(t, "u1", data["userId"])
	assert.Equal(t, false, data["isDeleted"])
	assert.NotEmpty(t, data["id"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBillHandler_ListPagination(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `bills`").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(25))
	rows := sqlmock.NewRows([]string{"id", "user_id", "order_name", "amount"})
	for _, id := range []string{"b21", "b22", "b23", "b24", "b25"} {
		rows.AddRow(id, "u1", "午餐", 10.5)
	}
	mock.ExpectQuery("SELECT \\* FROM `bills`").WillReturnRows(rows)

	h := NewBillHandler(service.NewBillService(db))
	r := newTestRouter(testUser)
	r.GET("/bills", h.List)

	w := perform(r, http.MethodGet, "/bills?page=3&limit=10", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode(t, w)
	assert.Len(t, resp["data"], 5)
	assert.Equal(t, map[string]any{"page": float64(3), "limit": float64(10), "total": float64(25), "pages": float64(3)}, resp["pagination"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBillHandler_ListRejectsBadQuery(t *testing.T) {
	db, _ := newMockDB(t)
	h := NewBillHandler(service.NewBillService(db))
	r := newTestRouter(testUser)
	r.GET("/bills", h.List)

	cases := map[string]string{
		"/bills?populate=owner":                           "populate",
		"/bills?page=abc":                                 "page",
		"/bills?minAmount=x":                              "minAmount",
		"/bills?startDate=2024-02-01&endDate=2024-01-01":  "startDate",
		"/bills?startDate=2024-01-01&tz=Mars/Olympus_Mons": "tz",
	}
	for path, field := range cases {
		w := perform(r, http.MethodGet, path, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
		assert.Equal(t, []string{field}, fieldNames(decode(t, w)), path)
	}
}

func TestBillHandler_GetNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("SELECT \\* FROM `bills`").WillReturnRows(sqlmock.NewRows([]string{"id"}))

	h := NewBillHandler(service.NewBillService(db))
	r := newTestRouter(testUser)
	r.GET("/bills/:id", h.Get)

	w := perform(r, http.MethodGet, "/bills/other-users-bill", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "账单不存在", decode(t, w)["message"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBillHandler_ExportCSV(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("SELECT \\* FROM `bills`").WillReturnRows(sqlmock.NewRows([]string{"id"}))

	h := NewBillHandler(service.NewBillService(db))
	r := newTestRouter(testUser)
	r.GET("/bills/export", h.Export)

	w := perform(r, http.MethodGet, "/bills/export?format=csv&startDate=2024-01-01&endDate=2024-01-31", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "bills_2024-01-01_2024-01-31.csv")
	assert.True(t, strings.HasPrefix(w.Body.String(), "\xEF\xBB\xBF"))

	w = perform(r, http.MethodGet, "/bills/export?format=pdf", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []string{"format"}, fieldNames(decode(t, w)))
}

func TestFoodHandler_CreateDefaults(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `foods`").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	h := NewFoodHandler(service.NewFoodService(db))
	fixed := time.Date(2024, 1, 15, 12, 30, 0, 0, time.UTC)
	h.now = func() time.Time { return fixed }
	r := newTestRouter(testUser)
	r.POST("/foods", h.Create)

	w := perform(r, http.MethodPost, "/foods", `{"name":"牛肉面","nutrition":{"calories":520}}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	data := decode(t, w)["data"].(map[string]any)
	assert.Equal(t, "lunch", data["mealType"])
	assert.Equal(t, float64(1), data["quantity"])
	assert.Equal(t, "份", data["unit"])
	assert.Equal(t, "good", data["mood"])
	assert.Equal(t, fixed.Format(time.RFC3339), data["mealTime"])
	assert.Equal(t, []any{}, data["tags"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFoodHandler_CreateValidation(t *testing.T) {
	db, _ := newMockDB(t)
	h := NewFoodHandler(service.NewFoodService(db))
	r := newTestRouter(testUser)
	r.POST("/foods", h.Create)

	w := perform(r, http.MethodPost, "/foods", `{"name":"奶茶","rating":6,"price":-1,"mealType":"brunch","nutrition":{"sugar":-3}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.ElementsMatch(t, []string{"rating", "price", "mealType", "nutrition.sugar"}, fieldNames(decode(t, w)))
}

func TestDiaryHandler_CreatePrivacyDefault(t *testing.T) {
	for _, tc := range []struct {
		name string
		body string
		want bool
	}{
		{"默认私密", `{"title":"周末","content":"爬山"}`, true},
		{"显式公开", `{"title":"周末","content":"爬山","isPrivate":false}`, false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			mock.ExpectBegin()
			mock.ExpectExec("INSERT INTO `diaries`").WillReturnResult(sqlmock.NewResult(0, 1))
			mock.ExpectCommit()

			r := newTestRouter(testUser)
			r.POST("/diaries", NewDiaryHandler(service.NewDiaryService(db)).Create)

			w := perform(r, http.MethodPost, "/diaries", tc.body)
			require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
			data := decode(t, w)["data"].(map[string]any)
			assert.Equal(t, tc.want, data["isPrivate"])
			assert.Equal(t, "normal", data["mood"])
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestFriendHandler_Birthdays(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("SELECT \\* FROM `friends`").WillReturnRows(
		sqlmock.NewRows([]string{"id", "user_id", "name", "birth_date"}).
			AddRow("f1", "u1", "今天", time.Date(1990, 3, 10, 0, 0, 0, 0, time.UTC)).
			AddRow("f2", "u1", "下月", time.Date(1992, 4, 1, 0, 0, 0, 0, time.UTC)).
			AddRow("f3", "u1", "年底", time.Date(1990, 12, 25, 0, 0, 0, 0, time.UTC)),
	)

	h := NewFriendHandler(service.NewFriendService(db))
	h.now = func() time.Time { return time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC) }
	r := newTestRouter(testUser)
	r.GET("/friends/birthdays", h.Birthdays)

	w := perform(r, http.MethodGet, "/friends/birthdays?days=30&tz=UTC", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	list := decode(t, w)["data"].([]any)
	require.Len(t, list, 2)
	first := list[0].(map[string]any)
	assert.Equal(t, float64(0), first["daysUntil"])
	assert.Equal(t, float64(34), first["age"])
	assert.Equal(t, "今天", first["friend"].(map[string]any)["name"])
	assert.Equal(t, float64(22), list[1].(map[string]any)["daysUntil"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFriendHandler_CreateNormalizesContacts(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `friends`").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	r := newTestRouter(testUser)
	r.POST("/friends", NewFriendHandler(service.NewFriendService(db)).Create)

	body := `{"name":"张三","contacts":[
		{"type":"phone","value":"111","isPrimary":true},
		{"type":"phone","value":"222","isPrimary":true},
		{"type":"wechat","value":"zs","isPrimary":true}]}`
	w := perform(r, http.MethodPost, "/friends", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	data := decode(t, w)["data"].(map[string]any)
	assert.Equal(t, "friend", data["relationship"])
	assert.Equal(t, float64(3), data["importance"])
	assert.Equal(t, float64(2), data["birthType"])

	contacts := data["contacts"].([]any)
	require.Len(t, contacts, 3)
	primary := func(i int) bool { return contacts[i].(map[string]any)["isPrimary"].(bool) }
	assert.False(t, primary(0))
	assert.True(t, primary(1))
	assert.True(t, primary(2))
	for _, c := range contacts {
		assert.NotEmpty(t, c.(map[string]any)["id"])
	}
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAppearanceHandler_BodyFatRange(t *testing.T) {
	db, _ := newMockDB(t)
	r := newTestRouter(testUser)
	r.POST("/appearances", NewAppearanceHandler(service.NewAppearanceService(db)).Create)

	w := perform(r, http.MethodPost, "/appearances", `{"bodyFatRate":120}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.ElementsMatch(t, []string{"photo", "bodyFatRate"}, fieldNames(decode(t, w)))
}

func TestFoodHandler_FavoritesMinRating(t *testing.T) {
	columns := []string{"name", "count", "avg_rating", "last_eaten", "total_calories"}

	for _, raw := range []string{"4.5", "0"} {
		t.Run("minRating="+raw, func(t *testing.T) {
			db, mock := newMockDB(t)
			mock.ExpectQuery("SELECT name, COUNT\\(\\*\\) AS count, .* HAVING COUNT\\(\\*\\) >= \\? AND AVG\\(rating\\) >= \\?").
				WillReturnRows(sqlmock.NewRows(columns).AddRow("牛肉面", 3, 4.8, time.Now(), 1500))

			r := newTestRouter(testUser)
			r.GET("/foods/favorites", NewFoodHandler(service.NewFoodService(db)).Favorites)

			w := perform(r, http.MethodGet, "/foods/favorites?minRating="+raw, "")
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			assert.Len(t, decode(t, w)["data"].([]any), 1)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}

	t.Run("非数字", func(t *testing.T) {
		db, _ := newMockDB(t)
		r := newTestRouter(testUser)
		r.GET("/foods/favorites", NewFoodHandler(service.NewFoodService(db)).Favorites)

		w := perform(r, http.MethodGet, "/foods/favorites?minRating=high", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, []string{"minRating"}, fieldNames(decode(t, w)))
	})
}
