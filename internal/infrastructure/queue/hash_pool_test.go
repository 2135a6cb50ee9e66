package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mindmax/mood-journal/internal/core/domain"
)

func startPool(t *testing.T, workers int) *HashPool {
	t.Helper()
	p := NewHashPool(workers, bcrypt.MinCost, zerolog.Nop())
	p.Start(context.Background())
	t.Cleanup(p.Stop)
	return p
}

func TestHashPool_HashAndCompare(t *testing.T) {
	p := startPool(t, 2)
	ctx := context.Background()

	hash, err := p.Hash(ctx, "secret1")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", hash)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)

	assert.NoError(t, p.Compare(ctx, hash, "secret1"))
	assert.ErrorIs(t, p.Compare(ctx, hash, "wrong"), domain.ErrInvalidCredentials)
}

func TestHashPool_SaltedPerCall(t *testing.T) {
	p := startPool(t, 1)
	ctx := context.Background()

	h1, err := p.Hash(ctx, "same")
	require.NoError(t, err)
	h2, err := p.Hash(ctx, "same")
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}

func TestHashPool_CompareMalformedHash(t *testing.T) {
	p := startPool(t, 1)

	err := p.Compare(context.Background(), "not-a-bcrypt-hash", "pw")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestHashPool_ConcurrentCallers(t *testing.T) {
	p := startPool(t, 2)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h, err := p.Hash(ctx, "pw")
			if assert.NoError(t, err) {
				assert.NoError(t, p.Compare(ctx, h, "pw"))
			}
		}()
	}
	wg.Wait()
}

func TestHashPool_ContextCancelled(t *testing.T) {
	// No workers started: the job is queued but never picked up.
	p := NewHashPool(1, bcrypt.MinCost, zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := p.Hash(ctx, "pw")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestHashPool_Stopped(t *testing.T) {
	p := NewHashPool(1, bcrypt.MinCost, zerolog.Nop())
	p.Start(context.Background())
	p.Stop()

	_, err := p.Hash(context.Background(), "pw")
	assert.ErrorIs(t, err, ErrPoolClosed)
}
