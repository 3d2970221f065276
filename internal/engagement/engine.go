// Package engagement keeps likes, follows, content actions and reading history
// consistent with their denormalized side effects: notifications, the per-user
// activity aggregate and the follower counter.
//
// Every multi-step action runs as an ordered list of single-record writes with
// no surrounding transaction. The like record is written first and removed
// last, so every tolerated partial state has the like present and a side effect
// missing, never the reverse. Follow edges are the source of truth for the
// follower counter, which can be recomputed from them.
package engagement

import (
	"context"
	"log/slog"
	"time"

	"github.com/anonto42/inkwell/backend/internal/models"
)

// UserStore reads users and adjusts the denormalized follower counter.
type UserStore interface {
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
	AdjustFollowCount(ctx context.Context, userID uint, delta int64) error
	SetFollowCount(ctx context.Context, userID uint, count int64) error
}

// PostStore is the read side of the post collection.
type PostStore interface {
	PostOwner(ctx context.Context, postID string) (uint, error)
	GetPostTags(ctx context.Context, postID string) ([]string, error)
	ListPostSummaries(ctx context.Context, authorID uint) ([]models.PostSummary, error)
}

// ContentAuthor creates comments and replies and links them to their parent.
// Parent ids are the same strings the resolver accepted.
type ContentAuthor interface {
	CreateComment(ctx context.Context, postID string, comment *models.Comment) error
	CreateReply(ctx context.Context, commentID string, reply *models.Reply) error
	AppendChildReference(ctx context.Context, parentKind models.TargetKind, parentID, childID string) error
}

// LikeStore is the ledger's backing store. CreateLike returns models.ErrDuplicate
// when the storage layer rejects a second row for the same tuple.
type LikeStore interface {
	CreateLike(ctx context.Context, like *models.Like) error
	GetLike(ctx context.Context, userID uint, kind models.TargetKind, targetID string) (*models.Like, error)
	DeleteLike(ctx context.Context, id uint) error
	SetNotification(ctx context.Context, likeID, notificationID uint) error
	CountLikes(ctx context.Context, kind models.TargetKind, targetIDs []string) (int64, error)
	FindUnlinked(ctx context.Context, limit int) ([]models.Like, error)
}

type NotificationStore interface {
	CreateNotification(ctx context.Context, notification *models.Notification) error
	DeleteNotification(ctx context.Context, id uint) error
}

// ActivityStore applies idempotent set operations to a user's aggregate.
// AddToSet creates the aggregate on first write.
type ActivityStore interface {
	AddToSet(ctx context.Context, userID uint, set, targetID string) error
	Pull(ctx context.Context, userID uint, set, targetID string) error
	GetActivity(ctx context.Context, userID uint) (*models.UserActivity, error)
}

// FollowStore returns models.ErrDuplicate from CreateFollow for an existing pair.
type FollowStore interface {
	CreateFollow(ctx context.Context, follow *models.Follow) error
	DeleteFollow(ctx context.Context, followerID, followingID uint) error
	IsFollowing(ctx context.Context, followerID, followingID uint) (bool, error)
	CountFollowers(ctx context.Context, userID uint) (int64, error)
}

// BookmarkStore returns models.ErrDuplicate from CreateBookmark for an existing pair.
type BookmarkStore interface {
	CreateBookmark(ctx context.Context, bookmark *models.Bookmark) error
	DeleteBookmark(ctx context.Context, userID uint, postID string) error
	GetBookmarksByUser(ctx context.Context, userID uint) ([]models.Bookmark, error)
}

type ReadingStore interface {
	AppendHistory(ctx context.Context, userID uint, entry models.ReadingEntry) error
	GetInterestedTags(ctx context.Context, userID uint) ([]string, error)
	AddInterestedTags(ctx context.Context, userID uint, tags []string) error
	CountReaders(ctx context.Context, postIDs []string) (int64, error)
}

// Stores bundles the collaborators the engine writes through.
type Stores struct {
	Users         UserStore
	Posts         PostStore
	Comments      TargetSource
	Replies       TargetSource
	Content       ContentAuthor
	Likes         LikeStore
	Notifications NotificationStore
	Activity      ActivityStore
	Follows       FollowStore
	Reading       ReadingStore
	Bookmarks     BookmarkStore
}

// Engine exposes one operation per engagement action.
type Engine struct {
	*Resolver
	*Ledger
	*Linker
	*Aggregator
	*FollowGraph
	*Tracker
	*StatisticsView
	*ConsistencyCheck
	*BookmarkList

	stores Stores
	log    *slog.Logger
	now    func() time.Time
}

// Option configures an Engine.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock overrides the time source used for record timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// New wires the engine components over the given stores.
func New(log *slog.Logger, stores Stores, opts ...Option) *Engine {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	log = log.With("service", "engagement")

	resolver := NewResolver(stores.Users, map[models.TargetKind]TargetSource{
		models.TargetPost:    TargetSourceFunc(stores.Posts.PostOwner),
		models.TargetComment: stores.Comments,
		models.TargetReply:   stores.Replies,
	})
	linker := NewLinker(log, stores.Notifications, stores.Likes, o.now)
	aggregator := NewAggregator(stores.Activity)

	return &Engine{
		Resolver:         resolver,
		Ledger:           NewLedger(log, resolver, stores.Likes, linker, aggregator, o.now),
		Linker:           linker,
		Aggregator:       aggregator,
		FollowGraph:      NewFollowGraph(log, resolver, stores.Follows, stores.Users, o.now),
		Tracker:          NewTracker(log, resolver, stores.Posts, stores.Reading, o.now),
		StatisticsView:   NewStatisticsView(resolver, stores.Posts, stores.Likes, stores.Reading),
		ConsistencyCheck: NewConsistencyCheck(stores.Likes),
		BookmarkList:     NewBookmarkList(resolver, stores.Bookmarks, o.now),
		stores:           stores,
		log:              log,
		now:              o.now,
	}
}
