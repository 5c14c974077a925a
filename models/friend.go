package models

import (
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// 生日历法
const (
	BirthLunar = 1
	BirthSolar = 2
)

// 默认值
const (
	DefaultRelationship = "friend"
	DefaultImportance   = 3
)

// Contact 联系方式
type Contact struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Value     string `json:"value"`
	Label     string `json:"label"`
	IsPrimary bool   `json:"isPrimary"`
}

// Friend 朋友
type Friend struct {
	Record
	Name            string     `json:"name" gorm:"size:50;not null;index"`
	Nickname        string     `json:"nickname" gorm:"size:50"`
	Sex             *int       `json:"sex"`
	BirthDate       *time.Time `json:"birthDate" gorm:"type:date;index"`
	BirthType       int        `json:"birthType" gorm:"not null;default:2"`
	Avatar          string     `json:"avatar" gorm:"size:500"`
	Contacts        []Contact  `json:"contacts" gorm:"serializer:json;type:text"`
	LiveAddress     string     `json:"liveAddress" gorm:"size:200"`
	HomeAddress     string     `json:"homeAddress" gorm:"size:200"`
	School          string     `json:"school" gorm:"size:100"`
	Profession      string     `json:"profession" gorm:"size:100"`
	Disposition     string     `json:"disposition" gorm:"size:500"`
	Hobbies         []string   `json:"hobbies" gorm:"serializer:json;type:text"`
	Tags            []string   `json:"tags" gorm:"serializer:json;type:text"`
	Remark          string     `json:"remark" gorm:"size:1000"`
	Advantages      string     `json:"advantages" gorm:"size:500"`
	Disadvantages   string     `json:"disadvantages" gorm:"size:500"`
	Relationship    string     `json:"relationship" gorm:"size:20;not null;default:friend;index"`
	Importance      int        `json:"importance" gorm:"not null;default:3;index"`
	LastContactDate *time.Time `json:"lastContactDate"`
}

func (Friend) TableName() string {
	return "friends"
}

// BeforeSave 生日只保留日历日期
func (f *Friend) BeforeSave(tx *gorm.DB) error {
	if f.BirthDate != nil {
		d := CalendarDate(*f.BirthDate)
		f.BirthDate = &d
	}
	return nil
}

// CalendarDate 取 t 在其自身时区中的年月日，返回服务器时区的当天零点。
// 数据库驱动按服务器时区写入 date 列，读回后 Date() 仍是同一天。
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

// NormalizeContacts 补齐 ID，并保证每种类型至多一个主联系方式（后出现的优先）
func NormalizeContacts(contacts []Contact) []Contact {
	out := make([]Contact, len(contacts))
	primary := make(map[string]int)
	for i, c := range contacts {
		if c.ID == "" {
			c.ID = uuid.NewString()
		}
		if c.IsPrimary {
			if prev, ok := primary[c.Type]; ok {
				out[prev].IsPrimary = false
			}
			primary[c.Type] = i
		}
		out[i] = c
	}
	return out
}

// AddContact 添加联系方式；设为主联系方式时取消同类型其他联系方式的主标记
func (f *Friend) AddContact(c Contact) Contact {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.IsPrimary {
		for i := range f.Contacts {
			if f.Contacts[i].Type == c.Type {
				f.Contacts[i].IsPrimary = false
			}
		}
	}
	f.Contacts = append(f.Contacts, c)
	return c
}

// RemoveContact 删除联系方式，不存在时返回 false
func (f *Friend) RemoveContact(id string) bool {
	for i, c := range f.Contacts {
		if c.ID == id {
			f.Contacts = append(f.Contacts[:i], f.Contacts[i+1:]...)
			return true
		}
	}
	return false
}

// NextBirthday 将生日的日历月日投影到 now 所在年份，已过则顺延一年。
// birth 为日历日期（见 CalendarDate），不随 now 的时区换算；
// 返回生日当天零点（now 的时区）和距今天数，今天为 0。
// 农历生日同样按存储的月日计算。
func NextBirthday(birth, now time.Time) (time.Time, int) {
	loc := now.Location()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	_, m, d := birth.Date()

	next := projectBirthday(today.Year(), m, d, loc)
	if next.Before(today) {
		next = projectBirthday(today.Year()+1, m, d, loc)
	}
	days := int(math.Round(next.Sub(today).Hours() / 24))
	return next, days
}

func projectBirthday(year int, m time.Month, d int, loc *time.Location) time.Time {
	if m == time.February && d == 29 && !isLeap(year) {
		d = 28
	}
	return time.Date(year, m, d, 0, 0, 0, 0, loc)
}

func isLeap(y int) bool {
	return y%4 == 0 && (y%100 != 0 || y%400 == 0)
}

// UpcomingBirthday 即将到来的生日
type UpcomingBirthday struct {
	Friend    Friend    `json:"friend"`
	Birthday  time.Time `json:"birthday"`
	DaysUntil int       `json:"daysUntil"`
	Age       int       `json:"age"`
}

// UpcomingBirthdays 筛选 days 天内（含今天）过生日的朋友，按日期升序
func UpcomingBirthdays(friends []Friend, now time.Time, days int) []UpcomingBirthday {
	out := make([]UpcomingBirthday, 0)
	for _, f := range friends {
		if f.BirthDate == nil {
			continue
		}
		next, until := NextBirthday(*f.BirthDate, now)
		if until > days {
			continue
		}
		out = append(out, UpcomingBirthday{
			Friend:    f,
			Birthday:  next,
			DaysUntil: until,
			Age:       next.Year() - f.BirthDate.Year(),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Birthday.Before(out[j].Birthday)
	})
	return out
}
