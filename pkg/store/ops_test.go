package store_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/metafile/pkg/adapters/memory"
	"github.com/aretw0/metafile/pkg/core"
	"github.com/aretw0/metafile/pkg/store"
)

type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type ImportSettings struct {
	Volume float64 `json:"volume"`
	Loop   bool    `json:"loop"`
}

func newService() *store.Service {
	return store.NewService(store.WithLogger(slog.New(slog.DiscardHandler)))
}

func TestScenario_PointLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	asset := memory.NewAsset("pos.asset", "")

	require.NoError(t, store.Write(ctx, svc, asset, "pos", Point{X: 1, Y: 2}))
	assert.Equal(t, `{"pos":"{\"x\":1,\"y\":2}"}`, asset.Committed())

	p, err := store.Read[Point](ctx, svc, asset, "pos", nil)
	require.NoError(t, err)
	assert.Equal(t, Point{X: 1, Y: 2}, p)

	require.NoError(t, store.Clear(ctx, svc, asset, "pos"))
	assert.Equal(t, `{}`, asset.Committed())
	assert.Equal(t, 2, asset.Commits())
}

func TestRead_NoEntryNoFactory(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	asset := memory.NewAsset("a", `{"other":"1"}`)

	p, err := store.Read[Point](ctx, svc, asset, "pos", nil)
	require.NoError(t, err)
	assert.Equal(t, Point{}, p)

	data, _ := asset.UserData(ctx)
	assert.Equal(t, `{"other":"1"}`, data, "a plain read must not touch the host field")
	assert.Equal(t, 0, asset.Writes())
	assert.Equal(t, 0, asset.Commits())
}

func TestRead_FactoryCreatesSilently(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	asset := memory.NewAsset("music.ogg", "")

	calls := 0
	factory := func(a core.Asset) ImportSettings {
		calls++
		assert.Same(t, asset, a, "factory receives the asset being read")
		return ImportSettings{Volume: 0.8, Loop: true}
	}

	got, err := store.Read(ctx, svc, asset, "settings", factory)
	require.NoError(t, err)
	assert.Equal(t, ImportSettings{Volume: 0.8, Loop: true}, got)
	assert.Equal(t, 1, calls)

	data, _ := asset.UserData(ctx)
	assert.Equal(t, `{"settings":"{\"volume\":0.8,\"loop\":true}"}`, data)
	assert.Equal(t, 0, asset.Commits(), "factory defaults must not trigger a reimport")
	assert.Equal(t, 1, asset.Writes())

	again, err := store.Read[ImportSettings](ctx, svc, asset, "settings", nil)
	require.NoError(t, err)
	assert.Equal(t, got, again)

	// The stored value wins over the factory from now on.
	_, err = store.Read(ctx, svc, asset, "settings", factory)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestRead_PresentEntries(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	t.Run("Non-Empty Entry Is Decoded", func(t *testing.T) {
		asset := memory.NewAsset("a", `{"pos":"{\"x\":3,\"y\":4}"}`)
		factory := func(core.Asset) Point {
			t.Fatal("factory must not run when an entry exists")
			return Point{}
		}

		p, err := store.Read(ctx, svc, asset, "pos", factory)
		require.NoError(t, err)
		assert.Equal(t, Point{X: 3, Y: 4}, p)
		assert.Equal(t, 0, asset.Writes())
	})

	t.Run("Empty Entry Without Factory Reads As Absent", func(t *testing.T) {
		asset := memory.NewAsset("a", `{"pos":""}`)

		p, err := store.Read[Point](ctx, svc, asset, "pos", nil)
		require.NoError(t, err)
		assert.Equal(t, Point{}, p)
		assert.Equal(t, 0, asset.Writes())
	})

	t.Run("Empty Entry With Factory Is Replaced", func(t *testing.T) {
		asset := memory.NewAsset("a", `{"pos":""}`)

		p, err := store.Read(ctx, svc, asset, "pos", func(core.Asset) Point { return Point{X: 9, Y: 9} })
		require.NoError(t, err)
		assert.Equal(t, Point{X: 9, Y: 9}, p)

		data, _ := asset.UserData(ctx)
		assert.Equal(t, `{"pos":"{\"x\":9,\"y\":9}"}`, data)
		assert.Equal(t, 0, asset.Commits())
	})
}

func TestRead_TypeMismatch(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	asset := memory.NewAsset("a", "")
	require.NoError(t, store.Write(ctx, svc, asset, "pos", Point{X: 1, Y: 2}))

	got, err := store.Read[ImportSettings](ctx, svc, asset, "pos", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrDecode)
	assert.Equal(t, ImportSettings{}, got)

	// A factory does not paper over a mismatch.
	_, err = store.Read(ctx, svc, asset, "pos", func(core.Asset) ImportSettings { return ImportSettings{Volume: 1} })
	assert.ErrorIs(t, err, core.ErrDecode)
}

type Point3 struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

func TestRead_WiderTypeFails(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	asset := memory.NewAsset("a", "")
	require.NoError(t, store.Write(ctx, svc, asset, "pos", Point{X: 1, Y: 2}))

	got, err := store.Read[Point3](ctx, svc, asset, "pos", nil)
	assert.ErrorIs(t, err, core.ErrDecode)
	assert.Equal(t, Point3{}, got, "x and y must not be returned without z")

	// The narrower type written first still reads back.
	p, err := store.Read[Point](ctx, svc, asset, "pos", nil)
	require.NoError(t, err)
	assert.Equal(t, Point{X: 1, Y: 2}, p)
}

func TestWrite_OverwritePreservesOtherKeys(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	asset := memory.NewAsset("a", `{"label":"\"hero\""}`)

	require.NoError(t, store.Write(ctx, svc, asset, "k", Point{X: 1}))
	require.NoError(t, store.Write(ctx, svc, asset, "k", Point{X: 2, Y: 5}))

	p, err := store.Read[Point](ctx, svc, asset, "k", nil)
	require.NoError(t, err)
	assert.Equal(t, Point{X: 2, Y: 5}, p)

	label, err := store.Read[string](ctx, svc, asset, "label", nil)
	require.NoError(t, err)
	assert.Equal(t, "hero", label)
	assert.Equal(t, 2, asset.Commits(), "every write commits")
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	t.Run("Missing Key", func(t *testing.T) {
		asset := memory.NewAsset("a", `{"keep":"1"}`)
		require.NoError(t, store.Clear(ctx, svc, asset, "k"))
		assert.Equal(t, `{"keep":"1"}`, asset.Committed())
		assert.Equal(t, 1, asset.Commits())
	})

	t.Run("Empty Field", func(t *testing.T) {
		asset := memory.NewAsset("a", "")
		require.NoError(t, store.Clear(ctx, svc, asset, "k"))
		assert.Equal(t, `{}`, asset.Committed())
	})

	t.Run("After Write", func(t *testing.T) {
		asset := memory.NewAsset("a", "")
		require.NoError(t, store.Write(ctx, svc, asset, "k", Point{X: 1}))
		require.NoError(t, store.Write(ctx, svc, asset, "keep", 7))
		require.NoError(t, store.Clear(ctx, svc, asset, "k"))

		p, err := store.Read[Point](ctx, svc, asset, "k", nil)
		require.NoError(t, err)
		assert.Equal(t, Point{}, p)

		keys, err := svc.Keys(ctx, asset)
		require.NoError(t, err)
		assert.Equal(t, []string{"keep"}, keys)
	})
}

func TestMalformedField(t *testing.T) {
	ctx := context.Background()
	corrupt := `{"pos": not json`

	t.Run("Strict Policy Fails Loudly", func(t *testing.T) {
		svc := newService()
		asset := memory.NewAsset("a", corrupt)

		_, err := store.Read[Point](ctx, svc, asset, "pos", func(core.Asset) Point { return Point{X: 1} })
		assert.ErrorIs(t, err, core.ErrMalformedStore)

		assert.ErrorIs(t, store.Write(ctx, svc, asset, "pos", Point{}), core.ErrMalformedStore)
		assert.ErrorIs(t, store.Clear(ctx, svc, asset, "pos"), core.ErrMalformedStore)

		data, _ := asset.UserData(ctx)
		assert.Equal(t, corrupt, data, "corrupt data must never be silently replaced")
		assert.Equal(t, 0, asset.Writes())
	})

	t.Run("Reset Policy Treats Field As Empty", func(t *testing.T) {
		var logs bytes.Buffer
		svc := store.NewService(
			store.WithLogger(slog.New(slog.NewTextHandler(&logs, nil))),
			store.WithResetOnMalformed(true),
		)
		asset := memory.NewAsset("a", corrupt)

		p, err := store.Read[Point](ctx, svc, asset, "pos", nil)
		require.NoError(t, err)
		assert.Equal(t, Point{}, p)
		assert.Contains(t, logs.String(), "discarding malformed user data")

		require.NoError(t, store.Write(ctx, svc, asset, "pos", Point{X: 1, Y: 2}))
		assert.Equal(t, `{"pos":"{\"x\":1,\"y\":2}"}`, asset.Committed())
	})
}

func TestEmptyKey(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	asset := memory.NewAsset("a", "")

	_, err := store.Read[Point](ctx, svc, asset, "", nil)
	assert.ErrorIs(t, err, core.ErrEmptyKey)
	assert.ErrorIs(t, store.Write(ctx, svc, asset, "", Point{}), core.ErrEmptyKey)
	assert.ErrorIs(t, store.Clear(ctx, svc, asset, ""), core.ErrEmptyKey)
	assert.Equal(t, 0, asset.Writes())
}

func TestUnsupportedValue(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	asset := memory.NewAsset("a", "")

	err := store.Write(ctx, svc, asset, "cb", struct{ Fn func() }{})
	assert.ErrorIs(t, err, core.ErrUnsupportedType)
	assert.Equal(t, 0, asset.Writes())
}

func TestHostFailures(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	asset := memory.NewAsset("a", "")
	reimportErr := errors.New("reimport failed")
	asset.OnCommit = func(context.Context, string) error { return reimportErr }

	err := store.Write(ctx, svc, asset, "k", 1)
	assert.ErrorIs(t, err, reimportErr)

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = store.Read[int](canceled, svc, asset, "k", nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNilServiceUsesDefault(t *testing.T) {
	ctx := context.Background()
	asset := memory.NewAsset("a", "")

	require.NoError(t, store.Write(ctx, nil, asset, "n", 5))
	n, err := store.Read[int](ctx, nil, asset, "n", nil)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	require.NoError(t, store.Clear(ctx, nil, asset, "n"))
	assert.NotNil(t, store.Default())
}

func TestServiceState(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	asset := memory.NewAsset("a", "")

	_, _ = store.Read(ctx, svc, asset, "k", func(core.Asset) int { return 1 })
	_ = store.Write(ctx, svc, asset, "k", 2)
	_ = store.Clear(ctx, svc, asset, "k")

	state, ok := svc.State().(store.ServiceState)
	require.True(t, ok)
	assert.Equal(t, int64(1), state.Reads)
	assert.Equal(t, int64(1), state.Creates)
	assert.Equal(t, int64(1), state.Writes)
	assert.Equal(t, int64(1), state.Clears)
	assert.Equal(t, "store", svc.ComponentType())
}

func TestLookupAndKeys(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	asset := memory.NewAsset("a", `{"tint":"\"red\"","pos":"{\"x\":1}","blank":""}`)

	keys, err := svc.Keys(ctx, asset)
	require.NoError(t, err)
	assert.Equal(t, []string{"blank", "pos", "tint"}, keys)

	raw, ok, err := svc.Lookup(ctx, asset, "pos")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"x":1}`, raw)

	_, ok, err = svc.Lookup(ctx, asset, "blank")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = svc.Lookup(ctx, asset, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = svc.Lookup(ctx, asset, "")
	assert.ErrorIs(t, err, core.ErrEmptyKey)
	assert.Equal(t, 0, asset.Writes())
}
