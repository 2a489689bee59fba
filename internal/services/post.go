package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"emojichirp/internal/models"
	"emojichirp/internal/repository"
	"emojichirp/internal/telemetry"
	"emojichirp/internal/utils"
)

// MaxContentLength is measured in UTF-16 code units.
const MaxContentLength = 255

const publishTimeout = 5 * time.Second

type PostStore interface {
	Create(ctx context.Context, p *models.Post) error
	FindMany(ctx context.Context, f repository.PostFilter) ([]models.Post, error)
	FindUnique(ctx context.Context, id uint) (*models.Post, error)
}

type IdentityClient interface {
	ListByIDs(ctx context.Context, ids []string) ([]models.User, error)
	ListByUsername(ctx context.Context, username string) ([]models.User, error)
}

type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

type EventPublisher interface {
	PublishPostCreated(ctx context.Context, p *models.Post) error
}

// PostService creates posts and assembles feeds enriched with author records.
type PostService struct {
	store    PostStore
	identity IdentityClient
	limiter  RateLimiter
	events   EventPublisher
	metrics  *telemetry.Metrics
	log      *slog.Logger
}

func NewPostService(store PostStore, identity IdentityClient, limiter RateLimiter, events EventPublisher, metrics *telemetry.Metrics) *PostService {
	return &PostService{
		store:    store,
		identity: identity,
		limiter:  limiter,
		events:   events,
		metrics:  metrics,
		log:      slog.Default(),
	}
}

// ValidateContent checks length and the emoji-only rule.
func ValidateContent(content string) error {
	n := utils.JSLength(content)
	switch {
	case n < 1:
		return &ValidationError{Field: "content", Msg: "must not be empty"}
	case n > MaxContentLength:
		return &ValidationError{Field: "content", Msg: fmt.Sprintf("must be at most %d characters", MaxContentLength)}
	case !utils.IsEmojiOnly(content):
		return &ValidationError{Field: "content", Msg: "only emojis are allowed"}
	}
	return nil
}

// Create validates content, consumes one rate-limit slot for the author and
// stores the post. Invalid content never reaches the limiter.
func (s *PostService) Create(ctx context.Context, authorID, content string) (*models.Post, error) {
	if authorID == "" {
		return nil, ErrUnauthorized
	}
	if err := ValidateContent(content); err != nil {
		s.metrics.ValidationRejects.Inc()
		return nil, err
	}

	allowed, err := s.limiter.Allow(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		s.metrics.RateLimited.Inc()
		return nil, ErrTooManyRequests
	}

	post := &models.Post{AuthorID: authorID, Content: content}
	if err := s.store.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	s.metrics.PostsCreated.Inc()

	// 异步发布事件，失败只记录日志
	go s.publishCreated(context.WithoutCancel(ctx), post)

	return post, nil
}

func (s *PostService) publishCreated(ctx context.Context, post *models.Post) {
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	if err := s.events.PublishPostCreated(ctx, post); err != nil {
		s.log.Warn("publish post.created failed", "post_id", post.ID, "error", err)
	}
}

// GetAll returns the newest posts across all authors.
func (s *PostService) GetAll(ctx context.Context) ([]models.EnrichedPost, error) {
	posts, err := s.store.FindMany(ctx, repository.PostFilter{Limit: repository.FeedLimit})
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return s.enrich(ctx, posts)
}

// GetByAuthor returns the newest posts written by authorID.
func (s *PostService) GetByAuthor(ctx context.Context, authorID string) ([]models.EnrichedPost, error) {
	if authorID == "" {
		return nil, &ValidationError{Field: "userId", Msg: "must not be empty"}
	}
	posts, err := s.store.FindMany(ctx, repository.PostFilter{AuthorID: authorID, Limit: repository.FeedLimit})
	if err != nil {
		return nil, fmt.Errorf("list posts by author: %w", err)
	}
	return s.enrich(ctx, posts)
}

// GetByID returns nil, nil when the post does not exist.
func (s *PostService) GetByID(ctx context.Context, id uint) (*models.EnrichedPost, error) {
	post, err := s.store.FindUnique(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get post %d: %w", id, err)
	}

	enriched, err := s.enrich(ctx, []models.Post{*post})
	if err != nil {
		return nil, err
	}
	return &enriched[0], nil
}

// enrich resolves every distinct author with one identity lookup and pairs
// each post with its author, keeping the input order. A single unresolved
// author fails the whole call.
func (s *PostService) enrich(ctx context.Context, posts []models.Post) ([]models.EnrichedPost, error) {
	out := make([]models.EnrichedPost, 0, len(posts))
	if len(posts) == 0 {
		return out, nil
	}

	seen := make(map[string]struct{}, len(posts))
	ids := make([]string, 0, len(posts))
	for _, p := range posts {
		if _, ok := seen[p.AuthorID]; ok {
			continue
		}
		seen[p.AuthorID] = struct{}{}
		ids = append(ids, p.AuthorID)
	}

	users, err := s.identity.ListByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve authors: %w", err)
	}
	byID := make(map[string]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	for _, p := range posts {
		author, ok := byID[p.AuthorID]
		if !ok {
			s.metrics.EnrichmentFailures.Inc()
			return nil, &InconsistencyError{PostID: p.ID, AuthorID: p.AuthorID}
		}
		out = append(out, models.EnrichedPost{Post: p, Author: author})
	}
	return out, nil
}
