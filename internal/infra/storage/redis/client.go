package redis

import (
	"context"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// connectTimeout bounds the connection probe in NewClient, so a dead server
// fails fast even when the caller's context carries no deadline.
const connectTimeout = 5 * time.Second

// client wraps the Redis connection shared by every adapter in this package.
type client struct {
	conn *redis.Client
}

// Close releases the underlying Redis connection.
func (c *client) Close() error {
	return c.conn.Close()
}

// NewClient connects to Redis and verifies the connection with a ping before
// handing the client back. The connection is closed again when the probe
// fails.
func NewClient(ctx context.Context, addr, username, password string, db int) (*client, error) {
	conn := redis.NewClient(&redis.Options{
		Addr:     addr,
		Username: username,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	if err := conn.Ping(pingCtx).Err(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return &client{
		conn: conn,
	}, nil
}
