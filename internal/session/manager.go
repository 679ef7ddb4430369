package session

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pixil98/go-mudsession/internal/channels"
	"github.com/pixil98/go-mudsession/internal/game"
	"github.com/pixil98/go-mudsession/internal/skills"
	"github.com/pixil98/go-mudsession/internal/storage"
)

// NPCSink receives effects aimed at NPC targets, which have no session actor
// of their own.
type NPCSink interface {
	ApplyToNPC(roomId string, target game.CharacterRef, deltas []game.Delta) bool
}

// Manager is the supervising registry of live sessions. Sessions are
// addressed by handle (session id, or user id for effect routing); nothing
// reaches another session's state except through Post.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	byUser   map[int64]*Session

	engine     *skills.Engine
	bus        *channels.Bus
	rooms      RoomAuthority
	npcs       NPCSink
	subscriber Subscriber
	saves      storage.Storer[*game.Save]
	login      *loginFlow

	idleTimeout time.Duration

	idMu       sync.Mutex
	nextUserId int64
}

// NewManager wires the collaborators a session needs. Starter skills and the
// default room apply to newly created characters.
func NewManager(engine *skills.Engine, bus *channels.Bus, rooms RoomAuthority, npcs NPCSink,
	subscriber Subscriber, saves storage.Storer[*game.Save], defaultRoom string,
	starterSkills []string, idleTimeout time.Duration) *Manager {

	m := &Manager{
		sessions:    map[string]*Session{},
		byUser:      map[int64]*Session{},
		engine:      engine,
		bus:         bus,
		rooms:       rooms,
		npcs:        npcs,
		subscriber:  subscriber,
		saves:       saves,
		idleTimeout: idleTimeout,
		nextUserId:  maxUserId(saves) + 1,
	}
	m.login = &loginFlow{
		saves:         saves,
		defaultRoom:   defaultRoom,
		starterSkills: starterSkills,
		nextId:        m.allocUserId,
	}
	return m
}

func maxUserId(saves storage.Storer[*game.Save]) int64 {
	var max int64
	for _, save := range saves.GetAll() {
		if save.UserId > max {
			max = save.UserId
		}
	}
	return max
}

func (m *Manager) allocUserId() int64 {
	m.idMu.Lock()
	defer m.idMu.Unlock()
	id := m.nextUserId
	m.nextUserId++
	return id
}

// RunSession authenticates the connection and drives a session actor on it
// until disconnect. Connecting a character that is already online evicts the
// older session and waits for it to finish before taking over, so the save
// loaded here reflects the evicted session's final persist.
func (m *Manager) RunSession(ctx context.Context, conn io.ReadWriter) error {
	save, err := m.login.Run(conn)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}

	if prior := m.sessionFor(save.UserId); prior != nil {
		prior.Evict("Another connection has taken over your session.")
		select {
		case <-prior.stopped:
		case <-ctx.Done():
			return ctx.Err()
		}
		if latest := m.saves.Get(strings.ToLower(save.Name)); latest != nil {
			save = latest
		}
	}

	sess := &Session{
		id:         uuid.NewString(),
		conn:       conn,
		state:      NewState(save.Clone()),
		engine:     m.engine,
		bus:        m.bus,
		rooms:      m.rooms,
		persister:  m,
		deliver:    m,
		hinter:     NewHinter(),
		subscriber: m.subscriber,
		dispatcher: NewDispatcher(m.engine, m.bus),
		msgs:       make(chan []byte, 32),
		events:     make(chan Event, 32),
		done:       make(chan struct{}),
		stopped:    make(chan struct{}),
		subs:       map[string]func(){},
	}

	m.add(sess)
	defer m.remove(sess)

	return sess.Run(ctx)
}

func (m *Manager) sessionFor(userId int64) *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.byUser[userId]
}

func (m *Manager) add(sess *Session) {
	m.mu.Lock()
	prior := m.byUser[sess.UserId()]
	m.sessions[sess.Id()] = sess
	m.byUser[sess.UserId()] = sess
	m.mu.Unlock()

	// RunSession waits out a prior session before adding, but two logins for
	// the same character can still race here; the loser gets evicted.
	if prior != nil {
		prior.Evict("Another connection has taken over your session.")
	}
}

// remove unregisters a finished session. Room departure and the final persist
// only happen while the session still owns the character; an evicted session
// must not erase the room entry or overwrite the save its replacement is
// already using.
func (m *Manager) remove(sess *Session) {
	m.mu.Lock()
	delete(m.sessions, sess.Id())
	owned := m.byUser[sess.UserId()] == sess
	if owned {
		delete(m.byUser, sess.UserId())
	}
	m.mu.Unlock()

	if !owned {
		return
	}

	save := sess.finalSave()
	m.rooms.Leave(save.RoomId, save.Ref())
	if err := m.Persist(save); err != nil {
		slog.Warn("persisting save on disconnect", "user", save.UserId, "error", err)
	}
}

// Post delivers an event to a session's mailbox. Unknown handles and full
// mailboxes drop the event; delivery is at-most-once by design.
func (m *Manager) Post(sessionId string, ev Event) bool {
	m.mu.RLock()
	sess, ok := m.sessions[sessionId]
	m.mu.RUnlock()
	if !ok {
		return false
	}

	select {
	case sess.events <- ev:
		return true
	default:
		return false
	}
}

// DeliverEffects routes computed effects to their target: user targets get
// an EffectsEvent in their session mailbox, NPC targets go to the room
// registry. Both paths are best-effort.
func (m *Manager) DeliverEffects(roomId string, from, target game.CharacterRef, skillName string, deltas []game.Delta) bool {
	if target.Kind == game.KindNPC {
		return m.npcs.ApplyToNPC(roomId, target, deltas)
	}

	m.mu.RLock()
	sess, ok := m.byUser[target.Id]
	m.mu.RUnlock()
	if !ok {
		return false
	}

	return m.Post(sess.Id(), EffectsEvent{
		From:      from,
		SkillName: skillName,
		Deltas:    deltas,
	})
}

// Persist writes a save back through the save store.
func (m *Manager) Persist(save *game.Save) error {
	return m.saves.Save(strings.ToLower(save.Name), save)
}

// Tick posts a checkpoint event to every live session. Persistence and idle
// eviction then happen inside each owning actor, not here.
func (m *Manager) Tick(ctx context.Context) error {
	m.mu.RLock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	m.mu.RUnlock()

	for _, id := range ids {
		m.Post(id, CheckpointEvent{IdleCutoff: m.idleTimeout})
	}
	return nil
}

// Start blocks until shutdown.
func (m *Manager) Start(ctx context.Context) error {
	<-ctx.Done()
	return nil
}
