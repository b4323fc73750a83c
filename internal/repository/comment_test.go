package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"inkwell/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCommentRepository_GetByID(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	tests := []struct {
		name         string
		commentID    uint
		mockBehavior func()
		wantErr      string
	}{
		{
			name:      "Success",
			commentID: 1,
			mockBehavior: func() {
				rows := sqlmock.NewRows([]string{"id", "post_id", "author_name", "content", "status"}).
					AddRow(1, 3, "Reader", "Nice post", "pending")
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "comments" WHERE "comments"."id" = $1 ORDER BY "comments"."id" LIMIT $2`)).
					WithArgs(1, 1).
					WillReturnRows(rows)
			},
		},
		{
			name:      "Not Found",
			commentID: 99,
			mockBehavior: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "comments" WHERE "comments"."id" = $1 ORDER BY "comments"."id" LIMIT $2`)).
					WithArgs(99, 1).
					WillReturnError(gorm.ErrRecordNotFound)
			},
			wantErr: models.CodeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockBehavior()

			comment, err := repo.GetByID(ctx, tt.commentID)
			if tt.wantErr != "" {
				var appErr *models.AppError
				require.True(t, errors.As(err, &appErr))
				assert.Equal(t, tt.wantErr, appErr.Code)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, models.CommentStatusPending, comment.Status)
			assert.Equal(t, uint(3), comment.PostID)
		})
	}

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommentRepository_ListPending(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCommentRepository(db)

	rows := sqlmock.NewRows([]string{"id", "post_id", "author_name", "content", "status"}).
		AddRow(4, 1, "Early", "first in queue", "pending").
		AddRow(9, 2, "Late", "second in queue", "pending")
	mock.ExpectQuery(`SELECT \* FROM "comments" WHERE status = `).
		WithArgs("pending").
		WillReturnRows(rows)

	comments, err := repo.ListPending(context.Background())
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, uint(4), comments[0].ID)
}

func TestCommentRepository_ListApprovedByPost(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCommentRepository(db)

	rows := sqlmock.NewRows([]string{"id", "post_id", "author_name", "content", "status"}).
		AddRow(7, 5, "Reader", "latest", "approved")
	mock.ExpectQuery(`SELECT \* FROM "comments" WHERE post_id = `).
		WithArgs(5, "approved").
		WillReturnRows(rows)

	comments, err := repo.ListApprovedByPost(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, models.CommentStatusApproved, comments[0].Status)
}
