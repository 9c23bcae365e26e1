package component

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nizvoo/jevois/errors"
)

func TestAddSub(t *testing.T) {
	root := mustRoot(t, "engine")

	cam, err := root.AddSub("cam", newCamera)
	require.NoError(t, err)
	require.NotNil(t, cam)

	assert.Equal(t, "cam", cam.Node().InstanceName())
	assert.Equal(t, root, cam.Node().Parent())
	assert.Len(t, root.Subs(), 1)
}

func TestAddSub_DistinctNames(t *testing.T) {
	root := mustRoot(t, "engine")

	names := []string{"a", "b", "c", "d"}
	for _, name := range names {
		_, err := root.AddSub(name, plain)
		require.NoError(t, err)
	}

	subs := root.Subs()
	require.Len(t, subs, len(names))
	for i, sub := range subs {
		assert.Equal(t, names[i], sub.Node().InstanceName(), "insertion order must be preserved")
	}
}

func TestAddSub_NameCollision(t *testing.T) {
	root := mustRoot(t, "engine")

	_, err := root.AddSub("cam", newCamera)
	require.NoError(t, err)

	_, err = root.AddSub("cam", newCamera)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrNameCollision)

	// the failed add must have no visible side effect
	assert.Len(t, root.Subs(), 1)
}

func TestAddSub_FactoryFailure(t *testing.T) {
	root := mustRoot(t, "engine")

	failing := func(_ *Base) (Component, error) {
		return nil, fmt.Errorf("construction exploded")
	}
	_, err := root.AddSub("bad", failing)
	require.Error(t, err)
	assert.Empty(t, root.Subs())

	// the reserved name must be released after the failure
	_, err = root.AddSub("bad", newCamera)
	assert.NoError(t, err)
}

func TestAddSub_FactoryContract(t *testing.T) {
	root := mustRoot(t, "engine")

	rogue := func(_ *Base) (Component, error) {
		other, _ := NewRoot("other")
		return other, nil
	}
	_, err := root.AddSub("rogue", rogue)
	require.Error(t, err)
	assert.Empty(t, root.Subs())
}

func TestAddSub_ConcurrentSameName(t *testing.T) {
	root := mustRoot(t, "engine")

	const attempts = 16
	var successes, collisions atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := root.AddSub("cam", newCamera)
			switch {
			case err == nil:
				successes.Add(1)
			case errors.IsInvalid(err):
				collisions.Add(1)
			default:
				t.Errorf("unexpected error class: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), successes.Load(), "exactly one add of a contested name may succeed")
	assert.Equal(t, int32(attempts-1), collisions.Load())
	assert.Len(t, root.Subs(), 1)
}

func TestAddSub_ConcurrentDistinctNames(t *testing.T) {
	root := mustRoot(t, "engine")

	const n = 32
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := root.AddSub(fmt.Sprintf("sub%d", i), newCamera)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	subs := root.Subs()
	require.Len(t, subs, n)
	seen := make(map[string]bool, n)
	for _, sub := range subs {
		name := sub.Node().InstanceName()
		assert.False(t, seen[name], "duplicate child %q", name)
		seen[name] = true
	}
}

func TestAddSub_ParentUninitDuringFactory(t *testing.T) {
	root := mustRoot(t, "engine")
	require.NoError(t, root.Init())

	started := make(chan struct{})
	release := make(chan struct{})
	gated := func(base *Base) (Component, error) {
		close(started)
		<-release
		return base, nil
	}

	result := make(chan error, 1)
	go func() {
		_, err := root.AddSub("late", gated)
		result <- err
	}()

	<-started
	require.NoError(t, root.Uninit())
	close(release)
	require.NoError(t, <-result)

	sub, err := root.Sub("late")
	require.NoError(t, err)
	assert.False(t, sub.Node().IsInitialized(), "child must attach in its parent's run state")
}

func TestSub(t *testing.T) {
	root := mustRoot(t, "engine")
	_, err := root.AddSub("cam", newCamera)
	require.NoError(t, err)

	sub, err := root.Sub("cam")
	require.NoError(t, err)
	assert.Equal(t, "cam", sub.Node().InstanceName())

	_, err = root.Sub("ghost")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrNotFound)
	assert.False(t, errors.IsFatal(err), "plain lookup not-found is recoverable")
}

func TestSubAs(t *testing.T) {
	root := mustRoot(t, "engine")
	_, err := root.AddSub("cam", newCamera)
	require.NoError(t, err)

	cam, err := SubAs[*camera](root, "cam")
	require.NoError(t, err)
	assert.Equal(t, 50, cam.brightness.Get())
}

func TestSubAs_WrongType(t *testing.T) {
	root := mustRoot(t, "engine")
	_, err := root.AddSub("cam", newCamera)
	require.NoError(t, err)

	// a name match of the wrong type is a broken caller contract
	_, err = SubAs[*filter](root, "cam")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrTypeMismatch)
	assert.True(t, errors.IsFatal(err))
}

func TestSubAs_NotFound(t *testing.T) {
	root := mustRoot(t, "engine")

	_, err := SubAs[*camera](root, "ghost")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrNotFound)
	assert.True(t, errors.IsFatal(err), "typed lookup asserts existence, so not-found is fatal")
}

func TestSubAs_ClassAgnostic(t *testing.T) {
	root := mustRoot(t, "engine")
	_, err := root.AddSub("cam", newCamera)
	require.NoError(t, err)

	// a lookup at the generic component capability never fails the cast
	c, err := SubAs[Component](root, "cam")
	require.NoError(t, err)
	assert.Equal(t, "cam", c.Node().InstanceName())
}

func TestRemoveSub(t *testing.T) {
	root := mustRoot(t, "engine")
	cam, err := root.AddSub("cam", newCamera)
	require.NoError(t, err)

	require.NoError(t, root.RemoveSub(cam))
	assert.Empty(t, root.Subs())
	assert.Nil(t, cam.Node().Parent())

	_, err = root.Sub("cam")
	assert.Error(t, err, "removed child must be excluded from lookups")

	matches, err := root.ResolveAll("brightness")
	require.NoError(t, err)
	assert.Empty(t, matches, "removed child must be excluded from resolution")
}

func TestRemoveSub_NotAttached(t *testing.T) {
	root := mustRoot(t, "engine")
	cam, err := root.AddSub("cam", newCamera)
	require.NoError(t, err)

	require.NoError(t, root.RemoveSub(cam))

	// removing the same handle again is recoverable and changes nothing
	err = root.RemoveSub(cam)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrNotFound)
	assert.False(t, errors.IsFatal(err))
	assert.Empty(t, root.Subs())
}

func TestRemoveSub_ByIdentityNotName(t *testing.T) {
	root := mustRoot(t, "engine")
	cam, err := root.AddSub("cam", newCamera)
	require.NoError(t, err)

	// a detached node with the same name must not shadow the attached one
	stray, err := NewRoot("cam")
	require.NoError(t, err)
	err = root.RemoveSub(stray)
	assert.ErrorIs(t, err, errors.ErrNotFound)
	assert.Len(t, root.Subs(), 1)

	require.NoError(t, root.RemoveSub(cam))
	assert.Empty(t, root.Subs())
}

func TestRemoveSub_TeardownCascade(t *testing.T) {
	root := mustRoot(t, "engine")
	require.NoError(t, root.Init())

	cam, err := root.AddSub("cam", newCamera)
	require.NoError(t, err)
	lens, err := cam.Node().AddSub("lens", plain)
	require.NoError(t, err)
	require.True(t, lens.Node().IsInitialized())

	require.NoError(t, root.RemoveSub(cam))
	assert.False(t, cam.Node().IsInitialized())
	assert.False(t, lens.Node().IsInitialized())
}

func TestConcurrentLookupDuringMutation(t *testing.T) {
	root := mustRoot(t, "engine")

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			default:
			}
			for _, sub := range root.Subs() {
				_ = sub.Node().InstanceName()
			}
			_, _ = root.Sub("sub5")
			_, _ = root.ResolveAll("brightness")
		}
	}()

	for i := 0; i < 20; i++ {
		sub, err := root.AddSub(fmt.Sprintf("sub%d", i), newCamera)
		require.NoError(t, err)
		if i%3 == 0 {
			require.NoError(t, root.RemoveSub(sub))
		}
	}
	close(done)
	wg.Wait()
}
