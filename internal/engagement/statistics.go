package engagement

import (
	"context"
	"fmt"

	"github.com/anonto42/inkwell/backend/internal/models"
)

// StatisticsView aggregates an author's numbers. It never writes; counts taken
// while writers are active are point-in-time and may disagree with each other.
type StatisticsView struct {
	resolver *Resolver
	posts    PostStore
	likes    LikeStore
	reading  ReadingStore
}

func NewStatisticsView(resolver *Resolver, posts PostStore, likes LikeStore, reading ReadingStore) *StatisticsView {
	return &StatisticsView{resolver: resolver, posts: posts, likes: likes, reading: reading}
}

// AuthorStatistics returns post, comment, like and distinct-viewer counts over
// the author's posts.
func (s *StatisticsView) AuthorStatistics(ctx context.Context, authorID uint) (*models.AuthorStatistics, error) {
	if _, err := s.resolver.User(ctx, authorID); err != nil {
		return nil, err
	}

	posts, err := s.posts.ListPostSummaries(ctx, authorID)
	if err != nil {
		return nil, fmt.Errorf("list posts of %d: %w", authorID, err)
	}

	stats := &models.AuthorStatistics{AuthorID: authorID, PostCount: int64(len(posts))}
	if len(posts) == 0 {
		return stats, nil
	}

	ids := make([]string, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
		stats.TotalCommentCount += p.CommentCount
	}

	if stats.TotalLikes, err = s.likes.CountLikes(ctx, models.TargetPost, ids); err != nil {
		return nil, fmt.Errorf("count likes: %w", err)
	}
	if stats.DistinctViewers, err = s.reading.CountReaders(ctx, ids); err != nil {
		return nil, fmt.Errorf("count readers: %w", err)
	}
	return stats, nil
}
