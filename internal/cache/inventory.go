package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix         = "user:%d"
	UserByNamePrefix      = "user:name:%s"
	CategoryKeyPrefix     = "category:%d"
	CategoriesListKey     = "categories:list"
	TopicKeyPrefix        = "topic:%d"
	ConversationKeyPrefix = "conversation:%d:%d"
)

const (
	UserTTL         = 5 * time.Minute
	CategoryTTL     = 10 * time.Minute
	ListTTL         = 2 * time.Minute
	TopicTTL        = 5 * time.Minute
	ConversationTTL = 1 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func UserByNameKey(username string) string {
	return fmt.Sprintf(UserByNamePrefix, username)
}

func CategoryKey(categoryID uint) string {
	return fmt.Sprintf(CategoryKeyPrefix, categoryID)
}

func TopicKey(topicID uint) string {
	return fmt.Sprintf(TopicKeyPrefix, topicID)
}

// ConversationKey is order-independent so both participants share one entry.
func ConversationKey(a, b uint) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf(ConversationKeyPrefix, a, b)
}

func Invalidate(ctx context.Context, keys ...string) {
	if client != nil && len(keys) > 0 {
		client.Del(ctx, keys...)
	}
}

func InvalidateUser(ctx context.Context, userID uint, username string) {
	Invalidate(ctx, UserKey(userID), UserByNameKey(username))
}

func InvalidateCategory(ctx context.Context, categoryID uint) {
	Invalidate(ctx, CategoryKey(categoryID), CategoriesListKey)
}

func InvalidateTopic(ctx context.Context, topicID uint) {
	Invalidate(ctx, TopicKey(topicID))
}

func InvalidateConversation(ctx context.Context, a, b uint) {
	Invalidate(ctx, ConversationKey(a, b))
}
