package challenge

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/marcsello/joingate-bot/memdb"
)

func TestReap(t *testing.T) {
	ctx := context.Background()
	f := makeFixture(t)

	require.NoError(t, f.st.Put(ctx, memdb.ChallengeKey(testChat, 1), "1", 10*time.Minute))
	require.NoError(t, f.st.Put(ctx, memdb.ChallengeKey(testChat, 2), "2", 8*time.Minute))
	require.NoError(t, f.st.Put(ctx, memdb.ChallengeKey(testChat, 3), "3", 6*time.Minute))
	require.NoError(t, f.st.Put(ctx, "OTHER:4", "4", time.Minute))

	res, err := f.s.Reap(ctx)
	require.NoError(t, err)
	require.Equal(t, ReapResult{Scanned: 3, Reaped: 1}, res)
	require.Equal(t, []int{3}, f.m.deleted, "only the prompt about to expire is deleted")
	require.Len(t, f.rs.Keys(), 4, "records are left to expire")
}

func TestReap_AfterTimePasses(t *testing.T) {
	ctx := context.Background()
	f := makeFixture(t)

	msgID := f.issue(t)

	res, err := f.s.Reap(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, res.Reaped)

	f.rs.FastForward(DefaultTTL - DefaultReapThreshold + time.Second)

	res, err = f.s.Reap(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, res.Reaped)
	require.Equal(t, []int{msgID}, f.m.deleted)

	_, found, err := f.st.Get(ctx, memdb.ChallengeKey(testChat, msgID))
	require.NoError(t, err)
	require.True(t, found)
}

func TestReap_FailureDoesNotAbort(t *testing.T) {
	ctx := context.Background()
	f := makeFixture(t)

	for i := 1; i <= 3; i++ {
		require.NoError(t, f.st.Put(ctx, memdb.ChallengeKey(testChat, i), "1", time.Minute))
	}
	f.m.delErr[2] = errors.New("message to delete not found")

	res, err := f.s.Reap(ctx)
	require.NoError(t, err)
	require.Equal(t, ReapResult{Scanned: 3, Reaped: 2, Failed: 1}, res)
	require.ElementsMatch(t, []int{1, 2, 3}, f.m.deleted)
}

func TestReap_SkipsUnknownTTLAndMalformedKeys(t *testing.T) {
	ctx := context.Background()
	f := makeFixture(t)

	require.NoError(t, f.rs.Set(memdb.ChallengeKey(testChat, 1), "1"))
	require.NoError(t, f.st.Put(ctx, memdb.JoinKeyPrefix+"garbage", "1", time.Minute))

	res, err := f.s.Reap(ctx)
	require.NoError(t, err)
	require.Equal(t, ReapResult{Scanned: 2}, res)
	require.Empty(t, f.m.deleted)
}

func TestReap_StoreFails(t *testing.T) {
	f := makeFixture(t)
	f.rs.SetError("server is busy")

	_, err := f.s.Reap(context.Background())
	require.Error(t, err)
}

func TestRunReaper(t *testing.T) {
	f := makeFixture(t)
	require.NoError(t, f.st.Put(context.Background(), memdb.ChallengeKey(testChat, 1), "1", time.Minute))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- f.s.RunReaper(ctx, 10*time.Millisecond)
	}()

	require.Eventually(t, func() bool {
		f.m.mu.Lock()
		defer f.m.mu.Unlock()
		return len(f.m.deleted) > 0
	}, time.Second, 5*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}

func TestRunReaper_IntervalTooLong(t *testing.T) {
	f := makeFixture(t)
	require.Error(t, f.s.RunReaper(context.Background(), DefaultReapThreshold))
}
