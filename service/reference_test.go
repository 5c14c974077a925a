package service

import (
	"context"
	"testing"

	"daily/apperr"
	"daily/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestReferenceService_CreateDuplicateName(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `bill_categories` WHERE name = \\?").
		WithArgs("餐饮").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	_, err := NewBillCategoryService(db).Create(context.Background(), ReferenceInput{Name: strPtr("餐饮")})
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReferenceService_CreateDefaults(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `note_types`").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `note_types`").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	item, err := NewNoteTypeService(db).Create(context.Background(), ReferenceInput{Name: strPtr("读书")})
	require.NoError(t, err)
	assert.NotEmpty(t, item.ID)
	assert.True(t, item.IsActive)
	assert.Equal(t, models.DefaultColor, item.Color)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReferenceService_ParentOnlyForBillCategories(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `food_categories`").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	_, err := NewFoodCategoryService(db).Create(context.Background(), ReferenceInput{Name: strPtr("水果"), ParentID: strPtr("x")})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestReferenceService_CreateRequiresName(t *testing.T) {
	db, _ := newMockDB(t)
	_, err := NewBillCategoryService(db).Create(context.Background(), ReferenceInput{})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestReferenceService_DeactivateTwice(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewBillCategoryService(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `bill_categories` SET `is_active`").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `bill_categories` SET `is_active`").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	require.NoError(t, svc.Deactivate(context.Background(), "c1"))
	assert.True(t, apperr.IsNotFound(svc.Deactivate(context.Background(), "c1")))
	require.NoError(t, mock.ExpectationsWereMet())
}
