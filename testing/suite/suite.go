package suite

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-local/internal/repository/storage"
)

const (
	expireDuration  = 120
	maxWaitDuration = 120 * time.Second
)

const (
	redisPort  = "6379/tcp"
	redisImage = "redis"
	redisTag   = "alpine"
)

// Suite carries what a Redis backed test needs.
type Suite struct {
	*testing.T
	Logger *slog.Logger

	Storage *redis.Client
}

// Keys - lists the keys currently stored, for asserting on what a repository wrote.
func (that *Suite) Keys(ctx context.Context, pattern string) []string {
	that.Helper()

	keys, err := that.Storage.Keys(ctx, pattern).Result()
	if err != nil {
		that.Fatalf("could not list keys: %v", err)
	}

	return keys
}

// New - starts a throwaway Redis container for one test and flushes it.
// Tests are skipped with -short or when TICTACTOE_SKIP_DOCKER is set.
func New(t *testing.T) (context.Context, *Suite) {
	t.Helper()

	if testing.Short() || os.Getenv("TICTACTOE_SKIP_DOCKER") != "" {
		t.Skip("skipping docker backed test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), maxWaitDuration)
	t.Cleanup(cancel)

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("could not connect to docker: %v", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: redisImage,
		Tag:        redisTag,
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("could not start resource: %v", err)
	}

	// hard kill in case Purge never runs
	_ = resource.Expire(expireDuration)

	pool.MaxWait = maxWaitDuration

	var client *redis.Client
	if err = pool.Retry(func() error {
		var dialErr error
		client, dialErr = storage.NewRedis(ctx, resource.GetHostPort(redisPort))
		return dialErr
	}); err != nil {
		if purgeErr := pool.Purge(resource); purgeErr != nil {
			t.Logf("could not purge resource: %v", purgeErr)
		}

		t.Fatalf("could not connect to redis: %v", err)
	}

	if err = client.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("could not flush database: %v", err)
	}

	t.Cleanup(func() {
		_ = client.Close()

		if err := pool.Purge(resource); err != nil {
			t.Errorf("could not purge resource: %v", err)
		}
	})

	return ctx, &Suite{
		T:       t,
		Logger:  logger,
		Storage: client,
	}
}
