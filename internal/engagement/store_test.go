package engagement

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/anonto42/inkwell/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type memPost struct {
	owner    uint
	tags     []string
	comments []string
}

type memComment struct {
	owner   uint
	replies []string
}

// memStore is an in-memory implementation of every store the engine uses.
// Each method is atomic on its own, like a single-document write.
type memStore struct {
	mu sync.Mutex

	users         map[uint]*models.User
	posts         map[string]*memPost
	comments      map[string]*memComment
	replies       map[string]uint
	likes         map[uint]*models.Like
	notifications map[uint]*models.Notification
	activity      map[uint]map[string][]string
	follows       map[[2]uint]*models.Follow
	history       map[uint][]models.ReadingEntry
	tags          map[uint][]string
	bookmarks     map[uint][]models.Bookmark
	nextID        uint

	// hideLikes makes GetLike miss, widening the check-then-create window.
	hideLikes bool

	failCreateNotification error
	failSetNotification    error
	failAddToSet           error
	failPull               error
	failAdjustFollow       error
	failAppendChild        error
}

func newMemStore() *memStore {
	return &memStore{
		users:         map[uint]*models.User{},
		posts:         map[string]*memPost{},
		comments:      map[string]*memComment{},
		replies:       map[string]uint{},
		likes:         map[uint]*models.Like{},
		notifications: map[uint]*models.Notification{},
		activity:      map[uint]map[string][]string{},
		follows:       map[[2]uint]*models.Follow{},
		history:       map[uint][]models.ReadingEntry{},
		tags:          map[uint][]string{},
		bookmarks:     map[uint][]models.Bookmark{},
	}
}

func (m *memStore) id() uint {
	m.nextID++
	return m.nextID
}

// seeding helpers

func (m *memStore) addUser(id uint, name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[id] = &models.User{ID: id, Username: name, DisplayName: name}
}

func (m *memStore) addPost(owner uint, tags ...string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := primitive.NewObjectID().Hex()
	m.posts[id] = &memPost{owner: owner, tags: tags}
	return id
}

func (m *memStore) addComment(owner uint, postID string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := primitive.NewObjectID().Hex()
	m.comments[id] = &memComment{owner: owner}
	m.posts[postID].comments = append(m.posts[postID].comments, id)
	return id
}

func (m *memStore) addReply(owner uint, commentID string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := primitive.NewObjectID().Hex()
	m.replies[id] = owner
	m.comments[commentID].replies = append(m.comments[commentID].replies, id)
	return id
}

// inspection helpers

func (m *memStore) likeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.likes)
}

func (m *memStore) notificationList() []models.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Notification, 0, len(m.notifications))
	for _, n := range m.notifications {
		out = append(out, *n)
	}
	return out
}

func (m *memStore) set(userID uint, set string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.activity[userID][set]...)
}

func (m *memStore) followCount(userID uint) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.users[userID].TotalFollows
}

func (m *memStore) edgeCount(userID uint) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for key := range m.follows {
		if key[1] == userID {
			n++
		}
	}
	return n
}

// UserStore

func (m *memStore) GetUserByID(_ context.Context, id uint) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, models.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memStore) AdjustFollowCount(_ context.Context, userID uint, delta int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAdjustFollow != nil {
		return m.failAdjustFollow
	}
	u, ok := m.users[userID]
	if !ok {
		return models.ErrRecordNotFound
	}
	if u.TotalFollows+delta < 0 {
		return nil
	}
	u.TotalFollows += delta
	return nil
}

func (m *memStore) SetFollowCount(_ context.Context, userID uint, count int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return models.ErrRecordNotFound
	}
	u.TotalFollows = count
	return nil
}

// PostStore and target sources

func (m *memStore) PostOwner(_ context.Context, postID string) (uint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[postID]
	if !ok {
		return 0, models.ErrRecordNotFound
	}
	return p.owner, nil
}

func (m *memStore) commentOwner(_ context.Context, id string) (uint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.comments[id]
	if !ok {
		return 0, models.ErrRecordNotFound
	}
	return c.owner, nil
}

func (m *memStore) replyOwner(_ context.Context, id string) (uint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	owner, ok := m.replies[id]
	if !ok {
		return 0, models.ErrRecordNotFound
	}
	return owner, nil
}

func (m *memStore) GetPostTags(_ context.Context, postID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[postID]
	if !ok {
		return nil, models.ErrRecordNotFound
	}
	return append([]string(nil), p.tags...), nil
}

func (m *memStore) ListPostSummaries(_ context.Context, authorID uint) ([]models.PostSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.PostSummary
	for id, p := range m.posts {
		if p.owner == authorID {
			out = append(out, models.PostSummary{ID: id, CommentCount: int64(len(p.comments))})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ContentAuthor

func (m *memStore) CreateComment(_ context.Context, postID string, c *models.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	parent, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return models.ErrRecordNotFound
	}
	c.PostID = parent
	c.ID = primitive.NewObjectID()
	m.comments[c.ID.Hex()] = &memComment{owner: c.AuthorID}
	return nil
}

func (m *memStore) CreateReply(_ context.Context, commentID string, r *models.Reply) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	parent, err := primitive.ObjectIDFromHex(commentID)
	if err != nil {
		return models.ErrRecordNotFound
	}
	r.CommentID = parent
	r.ID = primitive.NewObjectID()
	m.replies[r.ID.Hex()] = r.AuthorID
	return nil
}

func (m *memStore) AppendChildReference(_ context.Context, kind models.TargetKind, parentID, childID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAppendChild != nil {
		return m.failAppendChild
	}
	switch kind {
	case models.TargetPost:
		p, ok := m.posts[parentID]
		if !ok {
			return models.ErrRecordNotFound
		}
		p.comments = append(p.comments, childID)
	case models.TargetComment:
		c, ok := m.comments[parentID]
		if !ok {
			return models.ErrRecordNotFound
		}
		c.replies = append(c.replies, childID)
	}
	return nil
}

// LikeStore

func (m *memStore) CreateLike(_ context.Context, like *models.Like) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range m.likes {
		if l.UserID == like.UserID && l.TargetType == like.TargetType && l.TargetID == like.TargetID {
			return models.ErrDuplicate
		}
	}
	like.ID = m.id()
	cp := *like
	m.likes[like.ID] = &cp
	return nil
}

func (m *memStore) GetLike(_ context.Context, userID uint, kind models.TargetKind, targetID string) (*models.Like, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.hideLikes {
		return nil, models.ErrRecordNotFound
	}
	for _, l := range m.likes {
		if l.UserID == userID && l.TargetType == kind && l.TargetID == targetID {
			cp := *l
			return &cp, nil
		}
	}
	return nil, models.ErrRecordNotFound
}

func (m *memStore) DeleteLike(_ context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.likes[id]; !ok {
		return models.ErrRecordNotFound
	}
	delete(m.likes, id)
	return nil
}

func (m *memStore) SetNotification(_ context.Context, likeID, notificationID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSetNotification != nil {
		return m.failSetNotification
	}
	l, ok := m.likes[likeID]
	if !ok {
		return models.ErrRecordNotFound
	}
	id := notificationID
	l.NotificationID = &id
	return nil
}

func (m *memStore) CountLikes(_ context.Context, kind models.TargetKind, targetIDs []string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	want := map[string]bool{}
	for _, id := range targetIDs {
		want[id] = true
	}
	var n int64
	for _, l := range m.likes {
		if l.TargetType == kind && want[l.TargetID] {
			n++
		}
	}
	return n, nil
}

func (m *memStore) FindUnlinked(_ context.Context, limit int) ([]models.Like, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Like
	for _, l := range m.likes {
		if l.NotificationID == nil {
			out = append(out, *l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// NotificationStore

func (m *memStore) CreateNotification(_ context.Context, n *models.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failCreateNotification != nil {
		return m.failCreateNotification
	}
	n.ID = m.id()
	cp := *n
	m.notifications[n.ID] = &cp
	return nil
}

func (m *memStore) DeleteNotification(_ context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.notifications[id]; !ok {
		return models.ErrRecordNotFound
	}
	delete(m.notifications, id)
	return nil
}

// ActivityStore

func (m *memStore) AddToSet(_ context.Context, userID uint, set, targetID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAddToSet != nil {
		return m.failAddToSet
	}
	sets, ok := m.activity[userID]
	if !ok {
		sets = map[string][]string{}
		m.activity[userID] = sets
	}
	for _, id := range sets[set] {
		if id == targetID {
			return nil
		}
	}
	sets[set] = append(sets[set], targetID)
	return nil
}

func (m *memStore) Pull(_ context.Context, userID uint, set, targetID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failPull != nil {
		return m.failPull
	}
	ids := m.activity[userID][set]
	kept := ids[:0]
	for _, id := range ids {
		if id != targetID {
			kept = append(kept, id)
		}
	}
	if sets, ok := m.activity[userID]; ok {
		sets[set] = kept
	}
	return nil
}

func (m *memStore) GetActivity(_ context.Context, userID uint) (*models.UserActivity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sets, ok := m.activity[userID]
	if !ok {
		return nil, models.ErrRecordNotFound
	}
	return &models.UserActivity{
		UserID:          userID,
		LikedPosts:      sets[models.SetLikedPosts],
		CommentedPosts:  sets[models.SetCommentedPosts],
		RepliedComments: sets[models.SetRepliedComments],
		LikedComments:   sets[models.SetLikedComments],
		LikedReplies:    sets[models.SetLikedReplies],
	}, nil
}

// FollowStore

func (m *memStore) CreateFollow(_ context.Context, f *models.Follow) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := [2]uint{f.FollowerID, f.FollowingID}
	if _, ok := m.follows[key]; ok {
		return models.ErrDuplicate
	}
	f.ID = m.id()
	cp := *f
	m.follows[key] = &cp
	return nil
}

func (m *memStore) DeleteFollow(_ context.Context, followerID, followingID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := [2]uint{followerID, followingID}
	if _, ok := m.follows[key]; !ok {
		return models.ErrRecordNotFound
	}
	delete(m.follows, key)
	return nil
}

func (m *memStore) IsFollowing(_ context.Context, followerID, followingID uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.follows[[2]uint{followerID, followingID}]
	return ok, nil
}

func (m *memStore) CountFollowers(_ context.Context, userID uint) (int64, error) {
	return int64(m.edgeCount(userID)), nil
}

// ReadingStore

func (m *memStore) AppendHistory(_ context.Context, userID uint, entry models.ReadingEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.history[userID] = append(m.history[userID], entry)
	return nil
}

func (m *memStore) GetInterestedTags(_ context.Context, userID uint) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.tags[userID]...), nil
}

func (m *memStore) AddInterestedTags(_ context.Context, userID uint, tags []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tags[userID] = append(m.tags[userID], tags...)
	return nil
}

func (m *memStore) CountReaders(_ context.Context, postIDs []string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	want := map[string]bool{}
	for _, id := range postIDs {
		want[id] = true
	}
	var n int64
	for _, entries := range m.history {
		for _, e := range entries {
			if want[e.PostID] {
				n++
				break
			}
		}
	}
	return n, nil
}

// BookmarkStore

func (m *memStore) CreateBookmark(_ context.Context, b *models.Bookmark) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.bookmarks[b.UserID] {
		if existing.PostID == b.PostID {
			return models.ErrDuplicate
		}
	}
	b.ID = m.id()
	m.bookmarks[b.UserID] = append([]models.Bookmark{*b}, m.bookmarks[b.UserID]...)
	return nil
}

func (m *memStore) DeleteBookmark(_ context.Context, userID uint, postID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := m.bookmarks[userID]
	for i, b := range list {
		if b.PostID == postID {
			m.bookmarks[userID] = append(list[:i:i], list[i+1:]...)
			return nil
		}
	}
	return models.ErrRecordNotFound
}

func (m *memStore) GetBookmarksByUser(_ context.Context, userID uint) ([]models.Bookmark, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Bookmark(nil), m.bookmarks[userID]...), nil
}

var testNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestEngine(t *testing.T, m *memStore) *Engine {
	t.Helper()
	return newTestEngineWith(t, m, nil)
}

// newTestEngineWith builds an engine over m after letting override replace
// individual stores.
func newTestEngineWith(t *testing.T, m *memStore, override func(*Stores)) *Engine {
	t.Helper()
	stores := Stores{
		Users:         m,
		Posts:         m,
		Comments:      TargetSourceFunc(m.commentOwner),
		Replies:       TargetSourceFunc(m.replyOwner),
		Content:       m,
		Likes:         m,
		Notifications: m,
		Activity:      m,
		Follows:       m,
		Reading:       m,
		Bookmarks:     m,
	}
	if override != nil {
		override(&stores)
	}
	return New(slog.New(slog.NewTextHandler(io.Discard, nil)), stores, WithClock(testClock))
}

func testClock() time.Time { return testNow }
