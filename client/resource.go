package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"daily/models"
)

// ListParams 列表查询参数，Filters 为资源特有的过滤条件（如 categoryId、mood）
type ListParams struct {
	Page      int
	Limit     int
	Search    string
	StartDate string
	EndDate   string
	Populate  string
	Filters   map[string]string
}

func (p ListParams) values() url.Values {
	v := url.Values{}
	if p.Page > 0 {
		v.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		v.Set("limit", strconv.Itoa(p.Limit))
	}
	set := func(k, val string) {
		if val != "" {
			v.Set(k, val)
		}
	}
	set("search", p.Search)
	set("startDate", p.StartDate)
	set("endDate", p.EndDate)
	set("populate", p.Populate)
	for k, val := range p.Filters {
		set(k, val)
	}
	return v
}

// Resource 单个资源的增删改查
type Resource[T any] struct {
	c    *Client
	path string
}

// List 分页列表
func (r Resource[T]) List(ctx context.Context, p ListParams) ([]T, Pagination, error) {
	items := make([]T, 0)
	page, err := r.c.do(ctx, http.MethodGet, r.path, p.values(), nil, &items)
	if err != nil {
		return nil, Pagination{}, err
	}
	if page == nil {
		return items, Pagination{}, nil
	}
	return items, *page, nil
}

// Get 详情
func (r Resource[T]) Get(ctx context.Context, id string) (*T, error) {
	var item T
	if _, err := r.c.do(ctx, http.MethodGet, r.path+"/"+url.PathEscape(id), nil, nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Create 创建，body 为对应的创建请求
func (r Resource[T]) Create(ctx context.Context, body any) (*T, error) {
	var item T
	if _, err := r.c.do(ctx, http.MethodPost, r.path, nil, body, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Update 更新，body 中只包含要修改的字段
func (r Resource[T]) Update(ctx context.Context, id string, body any) (*T, error) {
	var item T
	if _, err := r.c.do(ctx, http.MethodPut, r.path+"/"+url.PathEscape(id), nil, body, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Delete 删除
func (r Resource[T]) Delete(ctx context.Context, id string) error {
	_, err := r.c.do(ctx, http.MethodDelete, r.path+"/"+url.PathEscape(id), nil, nil, nil)
	return err
}

// Stats 统计，结果写入 out
func (r Resource[T]) Stats(ctx context.Context, query url.Values, out any) error {
	_, err := r.c.do(ctx, http.MethodGet, r.path+"/stats", query, nil, out)
	return err
}

func (c *Client) Bills() Resource[models.Bill] { return Resource[models.Bill]{c, "/api/bills"} }

func (c *Client) Todos() Resource[models.Todo] { return Resource[models.Todo]{c, "/api/todos"} }

func (c *Client) Notes() Resource[models.Note] { return Resource[models.Note]{c, "/api/notes"} }

func (c *Client) Foods() Resource[models.Food] { return Resource[models.Food]{c, "/api/foods"} }

func (c *Client) Friends() Resource[models.Friend] { return Resource[models.Friend]{c, "/api/friends"} }

func (c *Client) Diaries() Resource[models.Diary] { return Resource[models.Diary]{c, "/api/diaries"} }

func (c *Client) Appearances() Resource[models.Appearance] {
	return Resource[models.Appearance]{c, "/api/appearances"}
}
