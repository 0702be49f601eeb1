package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// RevokedTokenKey returns the cache key marking an access token id as logged out
func (r *CacheKeyStruct) RevokedTokenKey(jti string) string {
	return fmt.Sprintf("auth:revoked:%s", jti)
}

// ChatRoomChannel returns the Redis PubSub channel name for a project's chat room
func (r *CacheKeyStruct) ChatRoomChannel(roomID string) string {
	return fmt.Sprintf("chat:room:%s", roomID)
}

// QuizSubmitLockKey returns the key serializing quiz submissions of one user
func (r *CacheKeyStruct) QuizSubmitLockKey(userID string) string {
	return fmt.Sprintf("quiz:%s:submit_lock", userID)
}

var CacheKey = NewCacheKeyStruct()
