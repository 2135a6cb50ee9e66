package filestore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindmax/mood-journal/internal/core/domain"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(Config{Dir: filepath.Join(t.TempDir(), "data")})
	require.NoError(t, err)
	return s
}

func TestOpen_RequiresDir(t *testing.T) {
	_, err := Open(Config{})
	require.Error(t, err)
}

func TestStore_Ping(t *testing.T) {
	s := openStore(t)
	require.NoError(t, s.Ping())

	require.NoError(t, os.RemoveAll(s.Dir()))
	require.Error(t, s.Ping())
}

func TestUserRepository_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	repo := openStore(t).Users()

	created, err := repo.Create(ctx, &domain.User{Name: "A", Email: "A@X.com", PasswordHash: "hash"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "a@x.com", created.Email)
	assert.False(t, created.CreatedAt.IsZero())

	byEmail, err := repo.FindByEmail(ctx, "a@X.COM")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, created.ID, byEmail.ID)
	assert.Equal(t, "hash", byEmail.PasswordHash)

	byID, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, "A", byID.Name)
}

func TestUserRepository_MissReturnsNil(t *testing.T) {
	ctx := context.Background()
	repo := openStore(t).Users()

	u, err := repo.FindByEmail(ctx, "nobody@x.com")
	require.NoError(t, err)
	assert.Nil(t, u)

	u, err = repo.FindByID(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := openStore(t).Users()

	_, err := repo.Create(ctx, &domain.User{Name: "A", Email: "a@x.com", PasswordHash: "h"})
	require.NoError(t, err)

	_, err = repo.Create(ctx, &domain.User{Name: "B", Email: "A@x.com", PasswordHash: "h"})
	require.ErrorIs(t, err, domain.ErrUserExists)
}

func TestUserRepository_ConcurrentSameEmail(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	repo := s.Users()

	const n = 20
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			email := "same@x.com"
			if i%2 == 0 {
				email = "SAME@x.com"
			}
			_, err := repo.Create(ctx, &domain.User{Name: fmt.Sprint(i), Email: email, PasswordHash: "h"})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case assert.ErrorIs(t, err, domain.ErrUserExists):
				conflicts++
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, n-1, conflicts)

	var stored []userRecord
	require.NoError(t, s.users.view(func(users []userRecord) error {
		stored = users
		return nil
	}))
	assert.Len(t, stored, 1)
}

func TestCheckInRepository_AddListOrdered(t *testing.T) {
	ctx := context.Background()
	repo := openStore(t).CheckIns()
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	for _, offset := range []time.Duration{3 * time.Hour, -time.Hour, 0, 2 * time.Hour} {
		_, err := repo.Add(ctx, "u1", domain.CheckIn{Mood: domain.MoodCalm, Intensity: 5, Timestamp: base.Add(offset)})
		require.NoError(t, err)
	}
	_, err := repo.Add(ctx, "u2", domain.CheckIn{Mood: domain.MoodSad, Intensity: 2, Timestamp: base})
	require.NoError(t, err)

	list, err := repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 4)
	for i := 1; i < len(list); i++ {
		assert.False(t, list[i].Timestamp.Before(list[i-1].Timestamp), "list must be non-decreasing by timestamp")
	}
	for _, c := range list {
		assert.Equal(t, "u1", c.UserID)
	}
}

func TestCheckInRepository_AddOverridesOwnerAndID(t *testing.T) {
	ctx := context.Background()
	repo := openStore(t).CheckIns()

	created, err := repo.Add(ctx, "caller", domain.CheckIn{ID: "client-id", UserID: "someone-else", Mood: domain.MoodHappy, Intensity: 8})
	require.NoError(t, err)
	assert.Equal(t, "caller", created.UserID)
	assert.NotEqual(t, "client-id", created.ID)
	assert.False(t, created.Timestamp.IsZero())
}

func TestCheckInRepository_AddRejectsInvalid(t *testing.T) {
	ctx := context.Background()
	repo := openStore(t).CheckIns()

	_, err := repo.Add(ctx, "u1", domain.CheckIn{Mood: "furious", Intensity: 42})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)

	list, err := repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCheckInRepository_DeleteScopedToOwner(t *testing.T) {
	ctx := context.Background()
	repo := openStore(t).CheckIns()

	created, err := repo.Add(ctx, "owner", domain.CheckIn{Mood: domain.MoodHappy, Intensity: 8})
	require.NoError(t, err)

	ok, err := repo.Delete(ctx, "intruder", created.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.Delete(ctx, "intruder", "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	found, err := repo.FindByID(ctx, "intruder", created.ID)
	require.NoError(t, err)
	assert.Nil(t, found)

	ok, err = repo.Delete(ctx, "owner", created.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	list, err := repo.ListByUser(ctx, "owner")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCheckInRepository_ConcurrentAddsNoLostUpdates(t *testing.T) {
	ctx := context.Background()
	repo := openStore(t).CheckIns()

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := repo.Add(ctx, "u1", domain.CheckIn{Mood: domain.MoodNeutral, Intensity: i%10 + 1})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	list, err := repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, list, n)
}

func TestCheckInRepository_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s1, err := Open(Config{Dir: dir})
	require.NoError(t, err)
	created, err := s1.CheckIns().Add(ctx, "u1", domain.CheckIn{Mood: domain.MoodStressed, Intensity: 7, Notes: "deadline"})
	require.NoError(t, err)

	s2, err := Open(Config{Dir: dir})
	require.NoError(t, err)
	list, err := s2.CheckIns().ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)
	assert.Equal(t, created.Notes, list[0].Notes)
	assert.Equal(t, created.Mood, list[0].Mood)
	assert.True(t, created.Timestamp.Equal(list[0].Timestamp))
}

func TestCollection_FailedUpdateKeepsPreviousState(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := Open(Config{Dir: dir})
	require.NoError(t, err)

	_, err = s.CheckIns().Add(ctx, "u1", domain.CheckIn{Mood: domain.MoodHappy, Intensity: 1})
	require.NoError(t, err)
	before, err := os.ReadFile(filepath.Join(dir, checkInsFile))
	require.NoError(t, err)

	boom := fmt.Errorf("boom")
	err = s.checkIns.update(func(records []checkInRecord) ([]checkInRecord, bool, error) {
		return nil, true, boom
	})
	require.ErrorIs(t, err, boom)

	after, err := os.ReadFile(filepath.Join(dir, checkInsFile))
	require.NoError(t, err)
	assert.Equal(t, before, after)

	leftovers, err := filepath.Glob(filepath.Join(dir, ".*.tmp-*"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestCollection_ReadsLegacyFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	legacy := `[
  {"id":"c1","userId":"u1","mood":"happy","intensity":8,"notes":"","timestamp":"2024-01-02T10:00:00.000Z"},
  {"id":"c0","userId":"u1","mood":"sad","intensity":3,"notes":"meh","timestamp":"2024-01-01T10:00:00.000Z"}
]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, checkInsFile), []byte(legacy), 0o600))

	s, err := Open(Config{Dir: dir})
	require.NoError(t, err)
	list, err := s.CheckIns().ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "c0", list[0].ID)
	assert.Equal(t, "c1", list[1].ID)
}

func TestCheckInRepository_WritesFixedWidthTimestamps(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := Open(Config{Dir: dir})
	require.NoError(t, err)

	base := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	for _, ms := range []int{120, 0, 100} {
		_, err := s.CheckIns().Add(ctx, "u1", domain.CheckIn{
			Mood: domain.MoodCalm, Intensity: 4, Timestamp: base.Add(time.Duration(ms) * time.Millisecond),
		})
		require.NoError(t, err)
	}

	raw, err := os.ReadFile(filepath.Join(dir, checkInsFile))
	require.NoError(t, err)
	var records []struct {
		Timestamp string `json:"timestamp"`
	}
	require.NoError(t, json.Unmarshal(raw, &records))

	got := make([]string, 0, len(records))
	for _, r := range records {
		got = append(got, r.Timestamp)
	}
	assert.ElementsMatch(t, []string{
		"2024-01-01T10:00:00.000Z",
		"2024-01-01T10:00:00.100Z",
		"2024-01-01T10:00:00.120Z",
	}, got)

	list, err := s.CheckIns().ListByUser(ctx, "u1")
	require.NoError(t, err)
	for i := 1; i < len(list); i++ {
		prev, cur := domain.FormatTimestamp(list[i-1].Timestamp), domain.FormatTimestamp(list[i].Timestamp)
		assert.LessOrEqual(t, prev, cur, "string order must match chronological order")
	}
}

func TestCollection_ReadsTimestampsWithoutMilliseconds(t *testing.T) {
	dir := t.TempDir()
	legacy := `[{"id":"c1","userId":"u1","mood":"calm","intensity":5,"notes":"","timestamp":"2024-01-03T10:00:00+02:00"}]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, checkInsFile), []byte(legacy), 0o600))

	s, err := Open(Config{Dir: dir})
	require.NoError(t, err)
	list, err := s.CheckIns().ListByUser(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "2024-01-03T08:00:00.000Z", domain.FormatTimestamp(list[0].Timestamp))
}
