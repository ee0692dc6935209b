// Package typed provides key-bound, type-safe handles over the metadata store.
//
//	var settings = typed.NewEntry[AudioSettings](nil, "settings")
//
//	s, err := settings.Get(ctx, asset, func(core.Asset) AudioSettings {
//		return AudioSettings{Volume: 1}
//	})
package typed
