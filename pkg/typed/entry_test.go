package typed_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/metafile/pkg/adapters/memory"
	"github.com/aretw0/metafile/pkg/core"
	"github.com/aretw0/metafile/pkg/store"
	"github.com/aretw0/metafile/pkg/typed"
)

type TextureSettings struct {
	MaxSize   int    `json:"maxSize"`
	Filtering string `json:"filtering"`
}

func TestEntry(t *testing.T) {
	ctx := context.Background()
	asset := memory.NewAsset("textures/grass.png", "")
	entry := typed.NewEntry[TextureSettings](store.NewService(), "texture")

	assert.Equal(t, "texture", entry.Key())

	// 1. Lazy default
	got, err := entry.Get(ctx, asset, func(a core.Asset) TextureSettings {
		return TextureSettings{MaxSize: 2048, Filtering: "bilinear"}
	})
	require.NoError(t, err)
	assert.Equal(t, 2048, got.MaxSize)
	assert.Equal(t, 0, asset.Commits())

	// 2. Set
	require.NoError(t, entry.Set(ctx, asset, TextureSettings{MaxSize: 512, Filtering: "point"}))
	got, err = entry.Get(ctx, asset, nil)
	require.NoError(t, err)
	assert.Equal(t, TextureSettings{MaxSize: 512, Filtering: "point"}, got)
	assert.Equal(t, 1, asset.Commits())

	// 3. Clear
	require.NoError(t, entry.Clear(ctx, asset))
	got, err = entry.Get(ctx, asset, nil)
	require.NoError(t, err)
	assert.Equal(t, TextureSettings{}, got)
	assert.Equal(t, `{}`, asset.Committed())
}

func TestEntry_SharedAsset(t *testing.T) {
	ctx := context.Background()
	asset := memory.NewAsset("audio/theme.ogg", "")

	volume := typed.NewEntry[float64](nil, "volume")
	loop := typed.NewEntry[bool](nil, "loop")

	require.NoError(t, volume.Set(ctx, asset, 0.5))
	require.NoError(t, loop.Set(ctx, asset, true))

	v, err := volume.Get(ctx, asset, nil)
	require.NoError(t, err)
	assert.Equal(t, 0.5, v)

	l, err := loop.Get(ctx, asset, nil)
	require.NoError(t, err)
	assert.True(t, l)

	assert.Equal(t, `{"loop":"true","volume":"0.5"}`, asset.Committed())
}
