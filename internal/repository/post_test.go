package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"emojichirp/internal/db"
	"emojichirp/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	// 每个连接都是独立的内存库
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.Migrate(gdb))
	return gdb
}

func seed(t *testing.T, repo *PostRepository, base time.Time, authors ...string) []models.Post {
	t.Helper()
	posts := make([]models.Post, 0, len(authors))
	for i, author := range authors {
		p := models.Post{AuthorID: author, Content: "😀", CreatedAt: base.Add(time.Duration(i) * time.Second)}
		require.NoError(t, repo.Create(context.Background(), &p))
		posts = append(posts, p)
	}
	return posts
}

func TestCreate_AssignsID(t *testing.T) {
	repo := NewPostRepository(setupTestDB(t))

	p := &models.Post{AuthorID: "u1", Content: "🐼"}
	require.NoError(t, repo.Create(context.Background(), p))
	assert.NotZero(t, p.ID)
	assert.False(t, p.CreatedAt.IsZero())
}

func TestFindMany_NewestFirst(t *testing.T) {
	repo := NewPostRepository(setupTestDB(t))
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	seed(t, repo, base, "u1", "u2", "u1")

	posts, err := repo.FindMany(context.Background(), PostFilter{})
	require.NoError(t, err)
	require.Len(t, posts, 3)
	for i := 1; i < len(posts); i++ {
		assert.False(t, posts[i].CreatedAt.After(posts[i-1].CreatedAt))
	}
	assert.Equal(t, "u1", posts[0].AuthorID)
	assert.Equal(t, "u2", posts[1].AuthorID)
}

func TestFindMany_CapsAtFeedLimit(t *testing.T) {
	repo := NewPostRepository(setupTestDB(t))
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	authors := make([]string, FeedLimit+5)
	for i := range authors {
		authors[i] = fmt.Sprintf("u%d", i%7)
	}
	seeded := seed(t, repo, base, authors...)

	for _, limit := range []int{0, FeedLimit + 50} {
		posts, err := repo.FindMany(context.Background(), PostFilter{Limit: limit})
		require.NoError(t, err)
		require.Len(t, posts, FeedLimit)
		assert.Equal(t, seeded[len(seeded)-1].ID, posts[0].ID)
	}

	posts, err := repo.FindMany(context.Background(), PostFilter{Limit: 10})
	require.NoError(t, err)
	assert.Len(t, posts, 10)
}

func TestFindMany_ByAuthor(t *testing.T) {
	repo := NewPostRepository(setupTestDB(t))
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	seed(t, repo, base, "u1", "u2", "u1", "u3")

	posts, err := repo.FindMany(context.Background(), PostFilter{AuthorID: "u1"})
	require.NoError(t, err)
	require.Len(t, posts, 2)
	for _, p := range posts {
		assert.Equal(t, "u1", p.AuthorID)
	}
	assert.True(t, posts[0].CreatedAt.After(posts[1].CreatedAt))

	posts, err = repo.FindMany(context.Background(), PostFilter{AuthorID: "nobody"})
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestFindUnique(t *testing.T) {
	repo := NewPostRepository(setupTestDB(t))
	seeded := seed(t, repo, time.Now().UTC(), "u1", "u2")

	got, err := repo.FindUnique(context.Background(), seeded[1].ID)
	require.NoError(t, err)
	assert.Equal(t, "u2", got.AuthorID)
	assert.Equal(t, "😀", got.Content)

	_, err = repo.FindUnique(context.Background(), 9999)
	require.ErrorIs(t, err, ErrNotFound)
}
