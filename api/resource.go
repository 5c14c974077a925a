package api

import (
	"time"

	"daily/middleware"
	"daily/service"

	"github.com/gin-gonic/gin"
)

// 资源处理器共用的增删改查流程，具体资源的处理器负责解析请求体与过滤条件

func listResource[T any, PT interface {
	*T
	service.Owned
}](c *gin.Context, e *service.Engine[T, PT], scopes ...service.Scope) {
	q, err := listQuery(c)
	if err != nil {
		Fail(c, err)
		return
	}
	items, page, err := e.List(c.Request.Context(), middleware.CurrentUserID(c), q, scopes...)
	if err != nil {
		Fail(c, err)
		return
	}
	Paged(c, items, page)
}

func getResource[T any, PT interface {
	*T
	service.Owned
}](c *gin.Context, e *service.Engine[T, PT]) {
	item, err := e.Get(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"), populate(c)...)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, item)
}

func createResource[T any, PT interface {
	*T
	service.Owned
}](c *gin.Context, e *service.Engine[T, PT], item *T) {
	if err := e.Create(c.Request.Context(), middleware.CurrentUserID(c), item); err != nil {
		Fail(c, err)
		return
	}
	Created(c, item)
}

func updateResource[T any, PT interface {
	*T
	service.Owned
}](c *gin.Context, e *service.Engine[T, PT], apply func(*T) error) {
	item, err := e.Update(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"), apply)
	if err != nil {
		Fail(c, err)
		return
	}
	SuccessWithMessage(c, "更新成功", item)
}

func deleteResource[T any, PT interface {
	*T
	service.Owned
}](c *gin.Context, e *service.Engine[T, PT]) {
	if err := e.Delete(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id")); err != nil {
		Fail(c, err)
		return
	}
	SuccessWithMessage(c, "删除成功", nil)
}

// statsWindow 统计窗口：显式给出 startDate/endDate 时优先，否则按 period（默认 month）取调用方日历中的当前周期
func statsWindow(c *gin.Context, now time.Time) (service.Window, error) {
	loc, err := location(c)
	if err != nil {
		return service.Window{}, err
	}
	w, err := service.PeriodWindow(c.Query("period"), now.In(loc))
	if err != nil {
		return service.Window{}, err
	}
	from, to, err := dateRange(c, loc)
	if err != nil {
		return service.Window{}, err
	}
	if from != nil {
		w.Start = *from
	}
	if to != nil {
		w.End = *to
	}
	return w, nil
}
