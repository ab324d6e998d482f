package tracking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() time.Time {
	return time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
}

func TestNextMatchesFormatAndNeverRepeatsConsecutively(t *testing.T) {
	g := NewGenerator("CNT", WithClock(fixedClock))
	ctx := context.Background()

	prev := ""
	for range 10000 {
		code := g.Next(ctx)
		require.Regexp(t, Pattern, code)
		require.NotEqual(t, prev, code)
		prev = code
	}
}

func TestNextRedrawsWhenRandomRepeats(t *testing.T) {
	seq := []int{42, 42, 42, 7}
	i := 0
	g := NewGenerator("CNT", WithClock(fixedClock), WithRandom(func(int) int {
		v := seq[i]
		i++
		return v
	}))

	assert.Equal(t, "CNT-2026-00042", g.Next(context.Background()))
	assert.Equal(t, "CNT-2026-00007", g.Next(context.Background()))
}

type stubReserver struct {
	taken map[string]bool
	err   error
	calls int
}

func (s *stubReserver) Reserve(_ context.Context, code string, _ int) (bool, error) {
	s.calls++
	if s.err != nil {
		return false, s.err
	}
	return !s.taken[code], nil
}

func TestNextSkipsReservedCodes(t *testing.T) {
	seq := []int{1, 2, 3}
	i := 0
	res := &stubReserver{taken: map[string]bool{"CNT-2026-00001": true, "CNT-2026-00002": true}}
	g := NewGenerator("CNT", WithClock(fixedClock), WithReserver(res), WithRandom(func(int) int {
		v := seq[i]
		i++
		return v
	}))

	assert.Equal(t, "CNT-2026-00003", g.Next(context.Background()))
	assert.Equal(t, 3, res.calls)
}

func TestNextIgnoresReserverOutage(t *testing.T) {
	res := &stubReserver{err: errors.New("connection refused")}
	g := NewGenerator("CNT", WithClock(fixedClock), WithReserver(res))

	assert.Regexp(t, Pattern, g.Next(context.Background()))
	assert.Equal(t, 1, res.calls)
}

func TestRedisReserver(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	r := NewRedisReserver(client)
	ctx := context.Background()

	ok, err := r.Reserve(ctx, "CNT-2026-12345", 2026)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = r.Reserve(ctx, "CNT-2026-12345", 2026)
	require.NoError(t, err)
	assert.False(t, ok, "second claim of the same code must fail")

	ok, err = r.Reserve(ctx, "CNT-2027-12345", 2027)
	require.NoError(t, err)
	assert.True(t, ok)

	assert.True(t, mr.Exists("tracking-code:2026:CNT-2026-12345"))
}

func TestRedisReserverWithGenerator(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, mr.Set("tracking-code:2026:CNT-2026-00010", "1"))

	seq := []int{10, 11}
	i := 0
	g := NewGenerator("CNT", WithClock(fixedClock), WithReserver(NewRedisReserver(client)), WithRandom(func(int) int {
		v := seq[i]
		i++
		return v
	}))

	assert.Equal(t, "CNT-2026-00011", g.Next(context.Background()))
}
