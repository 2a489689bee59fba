package repository

import (
	"context"
	"errors"

	"emojichirp/internal/models"

	"gorm.io/gorm"
)

// FeedLimit caps every post listing.
const FeedLimit = 100

var ErrNotFound = errors.New("record not found")

// PostFilter narrows FindMany. An empty AuthorID lists every author.
type PostFilter struct {
	AuthorID string
	Limit    int
}

type PostRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) Create(ctx context.Context, p *models.Post) error {
	return r.db.WithContext(ctx).Create(p).Error
}

// FindMany returns posts newest first. Posts sharing a created_at come back in
// whatever order the database picks; callers must not rely on it.
func (r *PostRepository) FindMany(ctx context.Context, f PostFilter) ([]models.Post, error) {
	limit := f.Limit
	if limit <= 0 || limit > FeedLimit {
		limit = FeedLimit
	}

	q := r.db.WithContext(ctx).Model(&models.Post{})
	if f.AuthorID != "" {
		q = q.Where("author_id = ?", f.AuthorID)
	}

	var posts []models.Post
	if err := q.Order("created_at DESC").Limit(limit).Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// FindUnique returns ErrNotFound when no post has the id.
func (r *PostRepository) FindUnique(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}
