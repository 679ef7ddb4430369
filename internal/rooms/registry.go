package rooms

import (
	"cmp"
	"fmt"
	"slices"
	"sync"

	"github.com/pixil98/go-mudsession/internal/game"
	"github.com/pixil98/go-mudsession/internal/storage"
)

// Publisher provides the ability to publish messages to subjects.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// Subject returns the broker subject carrying a room's ambient messages
// (arrivals, departures, deaths).
func Subject(roomId string) string {
	return "room." + roomId
}

type npcState struct {
	ref   game.CharacterRef
	stats game.Stats
}

type roomState struct {
	players map[int64]game.CharacterRef
	npcs    map[int64]*npcState
}

// Registry is the authority for room membership. Sessions never hold it
// directly as shared state; they read point-in-time snapshots that may be
// stale by the time they're acted on.
type Registry struct {
	mu    sync.RWMutex
	pub   Publisher
	rooms map[string]*roomState
}

// NewRegistry builds room states from the room store, spawning each room's
// NPCs.
func NewRegistry(st storage.Storer[*Room], pub Publisher) *Registry {
	rooms := make(map[string]*roomState)
	for id, room := range st.GetAll() {
		rs := &roomState{
			players: make(map[int64]game.CharacterRef),
			npcs:    make(map[int64]*npcState, len(room.NPCs)),
		}
		for _, spec := range room.NPCs {
			rs.npcs[spec.Id] = &npcState{
				ref:   game.CharacterRef{Kind: game.KindNPC, Id: spec.Id, Name: spec.Name},
				stats: spec.Stats,
			}
		}
		rooms[id] = rs
	}

	return &Registry{
		pub:   pub,
		rooms: rooms,
	}
}

// Exists reports whether a room id is known.
func (r *Registry) Exists(roomId string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.rooms[roomId]
	return ok
}

// Lookup returns a point-in-time snapshot of a room's occupants, ordered by
// id so resolution is deterministic.
func (r *Registry) Lookup(roomId string) (game.RoomSnapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rs, ok := r.rooms[roomId]
	if !ok {
		return game.RoomSnapshot{}, fmt.Errorf("looking up %q: %w", roomId, game.ErrRoomNotFound)
	}

	snap := game.RoomSnapshot{
		Players: make([]game.CharacterRef, 0, len(rs.players)),
		NPCs:    make([]game.CharacterRef, 0, len(rs.npcs)),
	}
	for _, p := range rs.players {
		snap.Players = append(snap.Players, p)
	}
	for _, n := range rs.npcs {
		snap.NPCs = append(snap.NPCs, n.ref)
	}
	slices.SortFunc(snap.Players, func(a, b game.CharacterRef) int { return cmp.Compare(a.Id, b.Id) })
	slices.SortFunc(snap.NPCs, func(a, b game.CharacterRef) int { return cmp.Compare(a.Id, b.Id) })

	return snap, nil
}

// Enter records a character's arrival and announces it to the room.
func (r *Registry) Enter(roomId string, ref game.CharacterRef) error {
	r.mu.Lock()
	rs, ok := r.rooms[roomId]
	if !ok {
		r.mu.Unlock()
		return fmt.Errorf("entering %q: %w", roomId, game.ErrRoomNotFound)
	}
	rs.players[ref.Id] = ref
	r.mu.Unlock()

	r.announce(roomId, fmt.Sprintf("%s has arrived.", ref.Name))
	return nil
}

// Leave removes a character from a room and announces the departure. Leaving
// a room the character isn't in is a no-op.
func (r *Registry) Leave(roomId string, ref game.CharacterRef) {
	r.mu.Lock()
	rs, ok := r.rooms[roomId]
	if !ok {
		r.mu.Unlock()
		return
	}
	_, present := rs.players[ref.Id]
	delete(rs.players, ref.Id)
	r.mu.Unlock()

	if present {
		r.announce(roomId, fmt.Sprintf("%s has left.", ref.Name))
	}
}

// ApplyToNPC applies effect deltas to an NPC in the given room. Delivery is
// best-effort: a target that has already despawned is silently dropped and
// the method reports false. NPCs reduced to zero HP are removed from the
// room.
func (r *Registry) ApplyToNPC(roomId string, target game.CharacterRef, deltas []game.Delta) bool {
	r.mu.Lock()
	rs, ok := r.rooms[roomId]
	if !ok {
		r.mu.Unlock()
		return false
	}
	npc, ok := rs.npcs[target.Id]
	if !ok {
		r.mu.Unlock()
		return false
	}

	for _, d := range deltas {
		npc.stats.ApplyDelta(d)
	}

	slain := npc.stats.CurrentHP <= 0
	if slain {
		delete(rs.npcs, target.Id)
	}
	r.mu.Unlock()

	if slain {
		r.announce(roomId, fmt.Sprintf("%s falls to the ground.", npc.ref.Name))
	}
	return true
}

func (r *Registry) announce(roomId, msg string) {
	if r.pub == nil {
		return
	}
	// Best effort: room chatter is not delivery-critical.
	_ = r.pub.Publish(Subject(roomId), []byte(msg))
}
