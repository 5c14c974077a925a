package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"daily/models"
)

// LoginResult 登录/注册结果
type LoginResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      *models.User `json:"user"`
}

// RegisterInput 注册信息
type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Nickname string `json:"nickname,omitempty"`
}

// Login 登录并保存令牌
func (c *Client) Login(ctx context.Context, account, password string) (*LoginResult, error) {
	var res LoginResult
	body := map[string]string{"username": account, "password": password}
	if _, err := c.do(ctx, http.MethodPost, "/api/auth/login", nil, body, &res); err != nil {
		return nil, err
	}
	c.tokens.SetToken(res.Token)
	return &res, nil
}

// Register 注册并保存令牌
func (c *Client) Register(ctx context.Context, in RegisterInput) (*LoginResult, error) {
	var res LoginResult
	if _, err := c.do(ctx, http.MethodPost, "/api/auth/register", nil, in, &res); err != nil {
		return nil, err
	}
	c.tokens.SetToken(res.Token)
	return &res, nil
}

// Logout 退出登录，无论服务端是否成功都清除本地令牌
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil, nil)
	c.tokens.Clear()
	return err
}

// Profile 当前用户
func (c *Client) Profile(ctx context.Context) (*models.User, error) {
	var user models.User
	if _, err := c.do(ctx, http.MethodGet, "/api/auth/profile", nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ToggleTodo 切换待办完成状态
func (c *Client) ToggleTodo(ctx context.Context, id string) (*models.Todo, error) {
	var todo models.Todo
	if _, err := c.do(ctx, http.MethodPatch, "/api/todos/"+url.PathEscape(id)+"/toggle", nil, nil, &todo); err != nil {
		return nil, err
	}
	return &todo, nil
}

// ToggleTodoDetail 切换子任务完成状态
func (c *Client) ToggleTodoDetail(ctx context.Context, id, detailID string) (*models.Todo, error) {
	var todo models.Todo
	path := "/api/todos/" + url.PathEscape(id) + "/details/" + url.PathEscape(detailID) + "/toggle"
	if _, err := c.do(ctx, http.MethodPatch, path, nil, nil, &todo); err != nil {
		return nil, err
	}
	return &todo, nil
}

// AddContact 为朋友添加联系方式
func (c *Client) AddContact(ctx context.Context, friendID string, contact models.Contact) (*models.Friend, error) {
	var friend models.Friend
	if _, err := c.do(ctx, http.MethodPost, "/api/friends/"+url.PathEscape(friendID)+"/contacts", nil, contact, &friend); err != nil {
		return nil, err
	}
	return &friend, nil
}

// RemoveContact 删除联系方式
func (c *Client) RemoveContact(ctx context.Context, friendID, contactID string) (*models.Friend, error) {
	var friend models.Friend
	path := "/api/friends/" + url.PathEscape(friendID) + "/contacts/" + url.PathEscape(contactID)
	if _, err := c.do(ctx, http.MethodDelete, path, nil, nil, &friend); err != nil {
		return nil, err
	}
	return &friend, nil
}

// TouchContact 把最近联系时间更新为现在
func (c *Client) TouchContact(ctx context.Context, friendID string) (*models.Friend, error) {
	var friend models.Friend
	if _, err := c.do(ctx, http.MethodPatch, "/api/friends/"+url.PathEscape(friendID)+"/contact", nil, nil, &friend); err != nil {
		return nil, err
	}
	return &friend, nil
}

// Birthdays days 天内的生日
func (c *Client) Birthdays(ctx context.Context, days int) ([]models.UpcomingBirthday, error) {
	q := url.Values{}
	if days > 0 {
		q.Set("days", strconv.Itoa(days))
	}
	list := make([]models.UpcomingBirthday, 0)
	if _, err := c.do(ctx, http.MethodGet, "/api/friends/birthdays", q, nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// FavoriteFood 常吃且评分高的食物
type FavoriteFood struct {
	Name          string    `json:"name"`
	Count         int64     `json:"count"`
	AvgRating     float64   `json:"avgRating"`
	LastEaten     time.Time `json:"lastEaten"`
	TotalCalories float64   `json:"totalCalories"`
}

// FoodFavorites 最爱食物，limit/minCount 为 0、minRating 为 nil 时使用服务端默认值
func (c *Client) FoodFavorites(ctx context.Context, limit, minCount int, minRating *float64) ([]FavoriteFood, error) {
	q := url.Values{}
	for k, v := range map[string]int{"limit": limit, "minCount": minCount} {
		if v > 0 {
			q.Set(k, strconv.Itoa(v))
		}
	}
	if minRating != nil {
		q.Set("minRating", strconv.FormatFloat(*minRating, 'f', -1, 64))
	}
	list := make([]FavoriteFood, 0)
	if _, err := c.do(ctx, http.MethodGet, "/api/foods/favorites", q, nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// DailyNutrition 某一天的营养汇总
type DailyNutrition struct {
	Date      string           `json:"date"`
	Nutrition models.Nutrition `json:"nutrition"`
	MealCount int64            `json:"mealCount"`
}

// FoodDailyNutrition date 为空时取服务端的今天，tz 为 IANA 时区名，可为空
func (c *Client) FoodDailyNutrition(ctx context.Context, date, tz string) (*DailyNutrition, error) {
	q := url.Values{}
	if date != "" {
		q.Set("date", date)
	}
	if tz != "" {
		q.Set("tz", tz)
	}
	var out DailyNutrition
	if _, err := c.do(ctx, http.MethodGet, "/api/foods/daily-nutrition", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
