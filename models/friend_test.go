package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFriend_AddContactPrimaryPerType(t *testing.T) {
	f := &Friend{}
	first := f.AddContact(Contact{Type: "phone", Value: "111", IsPrimary: true})
	wechat := f.AddContact(Contact{Type: "wechat", Value: "wx", IsPrimary: true})
	second := f.AddContact(Contact{Type: "phone", Value: "222", IsPrimary: true})

	require.Len(t, f.Contacts, 3)
	assert.NotEmpty(t, first.ID)
	assert.False(t, f.Contacts[0].IsPrimary, "first phone should lose primary")
	assert.True(t, f.Contacts[1].IsPrimary, "wechat is untouched")
	assert.True(t, f.Contacts[2].IsPrimary)
	assert.Equal(t, wechat.ID, f.Contacts[1].ID)
	assert.Equal(t, second.ID, f.Contacts[2].ID)
}

func TestFriend_RemoveContact(t *testing.T) {
	f := &Friend{}
	c := f.AddContact(Contact{Type: "qq", Value: "123"})
	f.AddContact(Contact{Type: "email", Value: "a@b.c"})

	assert.True(t, f.RemoveContact(c.ID))
	assert.Len(t, f.Contacts, 1)
	assert.False(t, f.RemoveContact(c.ID))
}

func TestNormalizeContacts(t *testing.T) {
	out := NormalizeContacts([]Contact{
		{Type: "phone", Value: "1", IsPrimary: true},
		{Type: "email", Value: "e", IsPrimary: true},
		{Type: "phone", Value: "2", IsPrimary: true},
	})
	require.Len(t, out, 3)
	assert.False(t, out[0].IsPrimary)
	assert.True(t, out[1].IsPrimary)
	assert.True(t, out[2].IsPrimary)
	for _, c := range out {
		assert.NotEmpty(t, c.ID)
	}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNextBirthday(t *testing.T) {
	now := time.Date(2024, 6, 15, 14, 30, 0, 0, time.UTC)

	// 今天生日，偏移为 0
	next, days := NextBirthday(date(1990, 6, 15), now)
	assert.Equal(t, date(2024, 6, 15), next)
	assert.Equal(t, 0, days)

	// 已过，顺延到明年
	next, days = NextBirthday(date(1990, 3, 1), now)
	assert.Equal(t, date(2025, 3, 1), next)
	assert.Equal(t, 259, days)

	// 未到
	next, days = NextBirthday(date(2000, 6, 20), now)
	assert.Equal(t, date(2024, 6, 20), next)
	assert.Equal(t, 5, days)
}

func TestNextBirthday_LeapDay(t *testing.T) {
	now := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	next, _ := NextBirthday(date(2000, 2, 29), now)
	assert.Equal(t, date(2025, 2, 28), next)
}

func TestUpcomingBirthdays(t *testing.T) {
	now := time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)
	b1, b2, b3 := date(1990, 6, 25), date(1995, 6, 15), date(1980, 1, 1)
	friends := []Friend{
		{Name: "later", BirthDate: &b1},
		{Name: "today", BirthDate: &b2},
		{Name: "far", BirthDate: &b3},
		{Name: "unknown"},
	}

	got := UpcomingBirthdays(friends, now, 30)
	require.Len(t, got, 2)
	assert.Equal(t, "today", got[0].Friend.Name)
	assert.Equal(t, 0, got[0].DaysUntil)
	assert.Equal(t, 29, got[0].Age)
	assert.Equal(t, "later", got[1].Friend.Name)
	assert.Equal(t, 10, got[1].DaysUntil)
	assert.Equal(t, 34, got[1].Age)
}

func TestNextBirthday_AcrossTimeZones(t *testing.T) {
	shanghai := time.FixedZone("CST", 8*3600)

	// 用户在 +08:00 录入 1995-06-18，按日历日期保存
	f := &Friend{}
	entered := time.Date(1995, 6, 18, 0, 0, 0, 0, shanghai)
	f.BirthDate = &entered
	require.NoError(t, f.BeforeSave(nil))
	y, m, d := f.BirthDate.Date()
	assert.Equal(t, []int{1995, 6, 18}, []int{y, int(m), d})

	// 同一天上午在 +08:00 查询，生日就是今天
	now := time.Date(2026, 6, 18, 9, 0, 0, 0, shanghai)
	next, days := NextBirthday(*f.BirthDate, now)
	assert.Equal(t, 0, days)
	assert.Equal(t, time.Date(2026, 6, 18, 0, 0, 0, 0, shanghai), next)

	// UTC 的服务器上此刻仍是 6 月 18 日凌晨
	next, days = NextBirthday(*f.BirthDate, now.UTC())
	assert.Equal(t, 0, days)
	assert.Equal(t, time.June, next.Month())
	assert.Equal(t, 18, next.Day())
}
