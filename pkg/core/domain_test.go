package core_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aretw0/metafile/pkg/core"
)

type namedAsset struct{ name string }

func (n namedAsset) UserData(context.Context) (string, error) { return "", nil }
func (n namedAsset) SetUserData(context.Context, string) error { return nil }
func (n namedAsset) CommitAndReprocess(context.Context) error  { return nil }
func (n namedAsset) Name() string                              { return n.name }

type bareAsset struct{}

func (bareAsset) UserData(context.Context) (string, error) { return "", nil }
func (bareAsset) SetUserData(context.Context, string) error { return nil }
func (bareAsset) CommitAndReprocess(context.Context) error  { return nil }

func TestAssetName(t *testing.T) {
	assert.Equal(t, "textures/grass.png", core.AssetName(namedAsset{name: "textures/grass.png"}))
	assert.Equal(t, "", core.AssetName(bareAsset{}))
}

func TestEventString(t *testing.T) {
	e := core.Event{Type: core.EventModify, Asset: "audio/theme.ogg"}
	assert.Equal(t, "MODIFY audio/theme.ogg", e.String())
}
