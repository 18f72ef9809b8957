package app

import (
	"fmt"
	"time"

	"github.com/elibrary/backend/db"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// TouchLastSeen stamps user activity at most once per throttle window,
// using Redis SETNX to skip the write on repeat requests.
func TouchLastSeen(repo *db.Repo, rdb *redis.Client, throttle time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := UserID(c)
		if !ok {
			c.Next()
			return
		}

		key := fmt.Sprintf("user:lastseen:%d", uid)
		if ok, _ := rdb.SetNX(c, key, "1", throttle).Result(); ok {
			_ = repo.TouchUserSeen(c, uid) // best effort, never blocks the request
		}
		c.Next()
	}
}
