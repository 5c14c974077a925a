package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTodo_ProgressFromDetails(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	todo := &Todo{}
	todo.SetDetails([]TodoDetail{{Content: "a", Status: 0}, {Content: "b", Status: 1}}, now)

	assert.Equal(t, 50, todo.Progress)
	require.Len(t, todo.Details, 2)
	assert.NotEmpty(t, todo.Details[0].ID)
	assert.Nil(t, todo.Details[0].CompletedAt)
	require.NotNil(t, todo.Details[1].CompletedAt)
	assert.Equal(t, now, *todo.Details[1].CompletedAt)
}

func TestTodo_ProgressWithoutDetails(t *testing.T) {
	todo := &Todo{}
	assert.Equal(t, 0, todo.CalculateProgress())

	todo.Status = TodoCompleted
	assert.Equal(t, 100, todo.CalculateProgress())
}

func TestTodo_MarkCompletedForcesFullProgress(t *testing.T) {
	now := time.Now()
	todo := &Todo{}
	todo.SetDetails([]TodoDetail{{Status: 0}, {Status: 0}, {Status: 1}}, now)
	assert.Equal(t, 33, todo.Progress)

	todo.MarkCompleted(now)
	assert.Equal(t, 100, todo.Progress)
	assert.Equal(t, TodoCompleted, todo.Status)
	require.NotNil(t, todo.CompletedAt)

	todo.MarkIncomplete()
	assert.Nil(t, todo.CompletedAt)
	assert.Equal(t, TodoPending, todo.Status)
	assert.Equal(t, 33, todo.Progress)
}

func TestTodo_CompletedProgressFollowsDetails(t *testing.T) {
	now := time.Now()
	todo := &Todo{}
	todo.SetDetails([]TodoDetail{{ID: "d1", Status: 1}, {ID: "d2", Status: 1}}, now)
	todo.MarkCompleted(now)
	assert.Equal(t, 100, todo.Progress)

	// 已完成的待办取消勾选一个子项，进度按子项比例
	assert.True(t, todo.ToggleDetail("d2", now))
	assert.Equal(t, 50, todo.Progress)
	assert.Equal(t, TodoCompleted, todo.Status)

	completed := &Todo{Status: TodoCompleted, Details: []TodoDetail{{Status: 0}, {Status: 1}}}
	assert.Equal(t, 50, completed.CalculateProgress())
}

func TestTodo_Toggle(t *testing.T) {
	now := time.Now()
	todo := &Todo{}

	todo.Toggle(now)
	assert.Equal(t, TodoCompleted, todo.Status)
	assert.Equal(t, 100, todo.Progress)

	todo.Toggle(now)
	assert.Equal(t, TodoPending, todo.Status)
	assert.Equal(t, 0, todo.Progress)
	assert.Nil(t, todo.CompletedAt)
}

func TestTodo_ToggleDetail(t *testing.T) {
	now := time.Now()
	todo := &Todo{}
	todo.SetDetails([]TodoDetail{{ID: "d1"}, {ID: "d2"}}, now)

	assert.True(t, todo.ToggleDetail("d1", now))
	assert.Equal(t, 50, todo.Progress)
	assert.NotNil(t, todo.Details[0].CompletedAt)

	assert.True(t, todo.ToggleDetail("d1", now))
	assert.Equal(t, 0, todo.Progress)
	assert.Nil(t, todo.Details[0].CompletedAt)

	assert.False(t, todo.ToggleDetail("missing", now))
}
