package hook

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitState[T any](t *testing.T, r *Resource[T]) ResourceState[T] {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	st, err := r.Wait(ctx)
	require.NoError(t, err)
	return st
}

func TestResource_LoadsData(t *testing.T) {
	r := NewResource(context.Background(), func(ctx context.Context) (string, error) {
		return "hello", nil
	})
	defer r.Close()

	st := waitState(t, r)
	require.NotNil(t, st.Data)
	assert.Equal(t, "hello", *st.Data)
	assert.False(t, st.Loading)
	assert.Empty(t, st.Error)
}

func TestResource_ErrorClearsData(t *testing.T) {
	fail := false
	var mu sync.Mutex
	fetch := func(ctx context.Context) (int, error) {
		mu.Lock()
		defer mu.Unlock()
		if fail {
			return 0, errors.New("Service not found")
		}
		return 7, nil
	}
	r := NewResource(context.Background(), fetch)
	defer r.Close()
	st := waitState(t, r)
	require.NotNil(t, st.Data)

	mu.Lock()
	fail = true
	mu.Unlock()
	r.Refetch()
	st = waitState(t, r)
	assert.Nil(t, st.Data)
	assert.Equal(t, "Service not found", st.Error)
}

type emptyErr struct{}

func (emptyErr) Error() string { return "" }

func TestResource_EmptyErrorMessageUsesFallback(t *testing.T) {
	r := NewResource(context.Background(), func(ctx context.Context) (int, error) {
		return 0, emptyErr{}
	})
	defer r.Close()
	assert.Equal(t, FallbackError, waitState(t, r).Error)
}

func TestResource_PanicBecomesError(t *testing.T) {
	r := NewResource(context.Background(), func(ctx context.Context) (int, error) {
		panic("boom")
	})
	defer r.Close()
	assert.Equal(t, "panic: boom", waitState(t, r).Error)
}

func TestResource_StaleResultIsDropped(t *testing.T) {
	releaseA := make(chan struct{})
	cancelledA := make(chan struct{})

	fetchA := func(ctx context.Context) (string, error) {
		select {
		case <-releaseA:
		case <-ctx.Done():
			close(cancelledA)
			<-releaseA
		}
		return "A", nil
	}
	fetchB := func(ctx context.Context) (string, error) {
		return "B", nil
	}

	r := NewResource(context.Background(), fetchA, "a")
	defer r.Close()
	require.True(t, r.State().Loading)

	require.True(t, r.SetDeps(fetchB, "b"))
	st := waitState(t, r)
	require.NotNil(t, st.Data)
	assert.Equal(t, "B", *st.Data)

	select {
	case <-cancelledA:
	case <-time.After(2 * time.Second):
		t.Fatal("superseded run was not cancelled")
	}
	close(releaseA)

	time.Sleep(20 * time.Millisecond)
	st = r.State()
	assert.Equal(t, "B", *st.Data)
	assert.False(t, st.Loading)
}

func TestResource_SameDepsDoNotRefetch(t *testing.T) {
	var mu sync.Mutex
	calls := 0
	fetch := func(ctx context.Context) (int, error) {
		mu.Lock()
		defer mu.Unlock()
		calls++
		return calls, nil
	}
	r := NewResource(context.Background(), fetch, "id-1", 2)
	defer r.Close()
	waitState(t, r)

	assert.False(t, r.SetDeps(fetch, "id-1", 2))
	assert.True(t, r.SetDeps(fetch, "id-2", 2))
	st := waitState(t, r)
	assert.Equal(t, 2, *st.Data)
}

func TestResource_NilFetchIsIdle(t *testing.T) {
	r := NewResource[string](context.Background(), nil)
	defer r.Close()
	st := r.State()
	assert.Nil(t, st.Data)
	assert.False(t, st.Loading)
	assert.Empty(t, st.Error)
}

func TestResource_CloseDropsInFlightResult(t *testing.T) {
	release := make(chan struct{})
	var sawCancel bool
	var mu sync.Mutex
	r := NewResource(context.Background(), func(ctx context.Context) (string, error) {
		<-ctx.Done()
		mu.Lock()
		sawCancel = true
		mu.Unlock()
		<-release
		return "late", nil
	})

	var calls int
	r.OnChange(func(ResourceState[string]) {
		mu.Lock()
		calls++
		mu.Unlock()
	})

	r.Close()
	close(release)
	time.Sleep(20 * time.Millisecond)

	st := r.State()
	assert.Nil(t, st.Data)
	mu.Lock()
	assert.True(t, sawCancel)
	assert.Zero(t, calls)
	mu.Unlock()

	r.Refetch()
	assert.False(t, r.SetDeps(nil, "x"))
}

func TestResource_OnChangeSeesOrderedStates(t *testing.T) {
	gate := make(chan struct{})
	r := NewResource(context.Background(), func(ctx context.Context) (int, error) {
		<-gate
		return 1, nil
	})
	defer r.Close()

	got := make(chan ResourceState[int], 4)
	r.OnChange(func(st ResourceState[int]) { got <- st })
	close(gate)

	select {
	case st := <-got:
		assert.False(t, st.Loading)
		require.NotNil(t, st.Data)
		assert.Equal(t, 1, *st.Data)
	case <-time.After(2 * time.Second):
		t.Fatal("no change delivered")
	}
}

func TestResource_WaitHonoursContext(t *testing.T) {
	r := NewResource(context.Background(), func(ctx context.Context) (int, error) {
		<-ctx.Done()
		return 0, ctx.Err()
	})
	defer r.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	st, err := r.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.True(t, st.Loading)
}
