package game

// RoomSnapshot is a point-in-time, read-only view of a room's occupants,
// obtained from the room registry. It may already be stale when acted on;
// resolution against a stale snapshot surfaces as an ordinary "not found".
type RoomSnapshot struct {
	Players []CharacterRef
	NPCs    []CharacterRef
}

// FindByName matches a name fragment against all present characters,
// players first, and returns the first match.
func (r RoomSnapshot) FindByName(fragment string) (CharacterRef, bool) {
	for _, p := range r.Players {
		if p.MatchName(fragment) {
			return p, true
		}
	}
	for _, n := range r.NPCs {
		if n.MatchName(fragment) {
			return n, true
		}
	}
	return CharacterRef{}, false
}

// FindRef re-resolves an existing reference against this snapshot by
// variant and id. It returns false when the character is no longer present.
func (r RoomSnapshot) FindRef(ref CharacterRef) (CharacterRef, bool) {
	list := r.Players
	if ref.Kind == KindNPC {
		list = r.NPCs
	}
	for _, c := range list {
		if c.Equal(ref) {
			return c, true
		}
	}
	return CharacterRef{}, false
}
