// SPDX-License-Identifier: EPL-2.0

package spatial

import "github.com/yohamta/donburi"

// Component types the engine queries. Attach them with scene.With:
//
//	world.Spawn(scene.With(spatial.SoundComponent, snd), scene.Identity())
var (
	SoundComponent    = donburi.NewComponentType[*Sound]()
	SoundsComponent   = donburi.NewComponentType[Sounds]()
	ListenerComponent = donburi.NewComponentType[Listener]()
)
