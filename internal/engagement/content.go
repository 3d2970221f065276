package engagement

import (
	"context"
	"fmt"

	"github.com/anonto42/inkwell/backend/internal/metrics"
	"github.com/anonto42/inkwell/backend/internal/models"
)

// Comment creates a comment on postID, links it into the post and tracks the
// post in the author's commented set. Once the comment exists the action has
// succeeded; failed bookkeeping is logged.
func (e *Engine) Comment(ctx context.Context, userID uint, postID, content string) (comment *models.Comment, err error) {
	defer func() { metrics.Observe("comment", err, isRejection) }()

	if _, err := e.User(ctx, userID); err != nil {
		return nil, err
	}
	if _, err := e.Resolve(ctx, models.TargetPost, postID); err != nil {
		return nil, err
	}

	comment = &models.Comment{
		AuthorID:  userID,
		Content:   content,
		CreatedAt: e.now(),
	}
	if err := e.stores.Content.CreateComment(ctx, postID, comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}

	e.afterContent(ctx, userID, models.TargetPost, postID, comment.ID.Hex(), models.SetCommentedPosts)
	return comment, nil
}

// Reply creates a reply to commentID, links it into the comment and tracks the
// comment in the author's replied set.
func (e *Engine) Reply(ctx context.Context, userID uint, commentID, content string) (reply *models.Reply, err error) {
	defer func() { metrics.Observe("reply", err, isRejection) }()

	if _, err := e.User(ctx, userID); err != nil {
		return nil, err
	}
	if _, err := e.Resolve(ctx, models.TargetComment, commentID); err != nil {
		return nil, err
	}

	reply = &models.Reply{
		AuthorID:  userID,
		Content:   content,
		CreatedAt: e.now(),
	}
	if err := e.stores.Content.CreateReply(ctx, commentID, reply); err != nil {
		return nil, fmt.Errorf("create reply: %w", err)
	}

	e.afterContent(ctx, userID, models.TargetComment, commentID, reply.ID.Hex(), models.SetRepliedComments)
	return reply, nil
}

func (e *Engine) afterContent(ctx context.Context, userID uint, parentKind models.TargetKind, parentID, childID, set string) {
	if err := e.stores.Content.AppendChildReference(ctx, parentKind, parentID, childID); err != nil {
		metrics.CounterPartialStates.WithLabelValues("child_reference").Inc()
		e.log.WarnContext(ctx, "child not referenced by parent",
			"parent_type", parentKind, "parent_id", parentID, "child_id", childID, "error", err)
	}
	if err := e.Track(ctx, userID, set, parentID); err != nil {
		metrics.CounterPartialStates.WithLabelValues("activity").Inc()
		e.log.WarnContext(ctx, "content stored without activity entry",
			"user_id", userID, "set", set, "target_id", parentID, "error", err)
	}
}
