package api

import (
	"strconv"
	"strings"
	"time"
	"unicode"

	"daily/apperr"
	"daily/service"

	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

var timeLayouts = []string{time.RFC3339Nano, "2006-01-02 15:04:05", "2006-01-02T15:04:05", "2006-01-02 15:04", dateLayout}

// location 解析 tz 参数（IANA 名称），缺省使用服务器时区
func location(c *gin.Context) (*time.Location, error) {
	tz := c.Query("tz")
	if tz == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, apperr.Validation("时区无效", apperr.FieldError{Field: "tz", Message: "无效的 IANA 时区"})
	}
	return loc, nil
}

// parseTime 支持 RFC3339、"2006-01-02 15:04:05" 与纯日期；纯日期作为结束时间时取当天最后一刻
func parseTime(value string, loc *time.Location, endOfDay bool) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range timeLayouts {
		t, err := time.ParseInLocation(layout, value, loc)
		if err != nil {
			continue
		}
		if layout == dateLayout && endOfDay {
			t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
		}
		return t, nil
	}
	return time.Time{}, strconv.ErrSyntax
}

func queryInt(c *gin.Context, name string) (*int, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, apperr.Validation("参数错误", apperr.FieldError{Field: name, Message: "必须是整数"})
	}
	return &n, nil
}

func queryFloat(c *gin.Context, name string) (*float64, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, apperr.Validation("参数错误", apperr.FieldError{Field: name, Message: "必须是数字"})
	}
	return &f, nil
}

func queryBool(c *gin.Context, name string) (*bool, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, apperr.Validation("参数错误", apperr.FieldError{Field: name, Message: "必须是 true 或 false"})
	}
	return &b, nil
}

// queryEnum 校验可选的枚举参数
func queryEnum(c *gin.Context, name string, allowed ...string) (string, error) {
	v := c.Query(name)
	if v == "" {
		return "", nil
	}
	for _, a := range allowed {
		if v == a {
			return v, nil
		}
	}
	return "", apperr.Validation("参数错误", apperr.FieldError{Field: name, Message: "取值必须是 [" + strings.Join(allowed, " ") + "] 之一"})
}

// dateRange 解析 startDate/endDate，闭区间
func dateRange(c *gin.Context, loc *time.Location) (from, to *time.Time, err error) {
	var fields []apperr.FieldError
	if v := c.Query("startDate"); v != "" {
		t, perr := parseTime(v, loc, false)
		if perr != nil {
			fields = append(fields, apperr.FieldError{Field: "startDate", Message: "日期格式错误"})
		} else {
			from = &t
		}
	}
	if v := c.Query("endDate"); v != "" {
		t, perr := parseTime(v, loc, true)
		if perr != nil {
			fields = append(fields, apperr.FieldError{Field: "endDate", Message: "日期格式错误"})
		} else {
			to = &t
		}
	}
	if len(fields) > 0 {
		return nil, nil, apperr.Validation("参数错误", fields...)
	}
	if from != nil && to != nil && from.After(*to) {
		return nil, nil, apperr.Validation("参数错误", apperr.FieldError{Field: "startDate", Message: "不能晚于结束日期"})
	}
	return from, to, nil
}

// listQuery 解析分页、搜索、日期范围与 populate 参数
func listQuery(c *gin.Context) (service.ListQuery, error) {
	q := service.ListQuery{Search: c.Query("search")}
	if q.Search == "" {
		q.Search = c.Query("keyword")
	}
	page, err := queryInt(c, "page")
	if err != nil {
		return q, err
	}
	if page != nil {
		q.Page = *page
	}
	limit, err := queryInt(c, "limit")
	if err != nil {
		return q, err
	}
	if limit == nil {
		if limit, err = queryInt(c, "pageSize"); err != nil {
			return q, err
		}
	}
	if limit != nil {
		q.Limit = *limit
	}

	loc, err := location(c)
	if err != nil {
		return q, err
	}
	if q.From, q.To, err = dateRange(c, loc); err != nil {
		return q, err
	}
	q.Joins = populate(c)
	return q.Normalize(), nil
}

// populate ?populate=category,type -> ["Category", "Type"]
func populate(c *gin.Context) []string {
	raw := c.Query("populate")
	if raw == "" {
		return nil
	}
	var joins []string
	for _, p := range strings.Split(raw, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		r := []rune(p)
		r[0] = unicode.ToUpper(r[0])
		joins = append(joins, string(r))
	}
	return joins
}

// timeFields 解析请求体中的时间字段，出错时记录字段错误
type timeFields struct {
	loc    *time.Location
	errors []apperr.FieldError
}

func newTimeFields(c *gin.Context) (*timeFields, error) {
	loc, err := location(c)
	if err != nil {
		return nil, err
	}
	return &timeFields{loc: loc}, nil
}

// parse 必填时间，空值返回 fallback
func (p *timeFields) parse(field, value string, fallback time.Time) time.Time {
	if value == "" {
		return fallback
	}
	t, err := parseTime(value, p.loc, false)
	if err != nil {
		p.errors = append(p.errors, apperr.FieldError{Field: field, Message: "时间格式错误"})
		return fallback
	}
	return t
}

// optional 可选时间，空值返回 nil
func (p *timeFields) optional(field string, value *string) *time.Time {
	if value == nil || *value == "" {
		return nil
	}
	t, err := parseTime(*value, p.loc, false)
	if err != nil {
		p.errors = append(p.errors, apperr.FieldError{Field: field, Message: "时间格式错误"})
		return nil
	}
	return &t
}

func (p *timeFields) err() error {
	if len(p.errors) == 0 {
		return nil
	}
	return apperr.Validation("参数错误", p.errors...)
}
