// Package metafile stores typed key-value metadata inside the single opaque
// user data string a host attaches to each asset.
//
// The field holds a JSON object whose keys are metadata names and whose values
// are themselves JSON documents, encoded as strings:
//
//	{"pos":"{\"x\":1,\"y\":2}","tint":"\"red\""}
//
// Reads decode the whole object, take one entry and decode it into the
// requested Go type. Writes replace one entry, re-encode the whole object and
// commit the asset so the host reprocesses it. A read with a factory creates
// a missing entry without committing, so defaults never trigger a reimport.
//
// Hosts:
//
//   - fs: a project directory of assets with YAML ".meta" sidecars, the
//     userData scalar of the importer section holding the field.
//   - bolt: a bbolt database keyed by asset name.
//   - memory: an in-process asset, useful in tests.
//
// Usage:
//
//	ws, err := metafile.New("./MyGame")
//	if err != nil {
//		return err
//	}
//	defer ws.Close()
//
//	asset, err := ws.Host.Asset(ctx, "Assets/Sprites/hero.png")
//	if err != nil {
//		return err
//	}
//
//	pivot, err := metafile.Read(ctx, ws.Store, asset, "pivot", func(metafile.Asset) Point {
//		return Point{X: 0, Y: 0}
//	})
package metafile
