package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	PostKeyPrefix     = "post:%d"
	PostListKeyPrefix = "posts:published:v%d:p%d:n%d"
	CategoriesKey     = "categories:all"
	CommentsKeyPrefix = "post:%d:comments:approved"

	// publishedListVersionKey holds a counter embedded in every list
	// key. Bumping it orphans all cached pages at once, whatever page
	// size they were cached under; the orphans age out via ListTTL.
	publishedListVersionKey = "posts:published:ver"
)

const (
	PostTTL       = 30 * time.Minute
	ListTTL       = 2 * time.Minute
	CategoriesTTL = 10 * time.Minute
	CommentsTTL   = 5 * time.Minute
)

func PostKey(postID uint) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

// PostListKey returns the cache key for one page of the public post
// listing at the current version.
func PostListKey(ctx context.Context, page, perPage int) string {
	var ver int64
	if client != nil {
		if v, err := client.Get(ctx, publishedListVersionKey).Int64(); err == nil {
			ver = v
		}
	}
	return fmt.Sprintf(PostListKeyPrefix, ver, page, perPage)
}

func CommentsKey(postID uint) string {
	return fmt.Sprintf(CommentsKeyPrefix, postID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidatePost(ctx context.Context, postID uint) {
	Invalidate(ctx, PostKey(postID))
	Invalidate(ctx, CommentsKey(postID))
}

// InvalidatePublishedLists orphans every cached page of the public post
// listing by bumping the version counter.
func InvalidatePublishedLists(ctx context.Context) {
	if client != nil {
		client.Incr(ctx, publishedListVersionKey)
	}
}

func InvalidateCategories(ctx context.Context) {
	Invalidate(ctx, CategoriesKey)
}
