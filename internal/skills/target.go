package skills

import "github.com/pixil98/go-mudsession/internal/game"

// ResolveTarget picks a cast target from a room snapshot.
//
// A non-empty fragment is matched case-insensitively against everyone present,
// players before NPCs, first match winning; an explicit fragment always takes
// precedence over the stored target. An empty fragment re-resolves the stored
// target's identity against the current snapshot, which covers the
// target-left-room race: a character that is gone resolves to not-found
// rather than a stale reference.
func ResolveTarget(room game.RoomSnapshot, current *game.CharacterRef, fragment string) (game.CharacterRef, bool) {
	if fragment != "" {
		return room.FindByName(fragment)
	}
	if current == nil {
		return game.CharacterRef{}, false
	}
	return room.FindRef(*current)
}
