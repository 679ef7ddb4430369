package session

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/pixil98/go-mudsession/internal/channels"
	"github.com/pixil98/go-mudsession/internal/display"
	"github.com/pixil98/go-mudsession/internal/game"
	"github.com/pixil98/go-mudsession/internal/messaging"
	"github.com/pixil98/go-mudsession/internal/rooms"
	"github.com/pixil98/go-mudsession/internal/skills"
)

// RoomAuthority is the external directory of who is in which room. The
// session only ever consumes point-in-time snapshots of it.
type RoomAuthority interface {
	Lookup(roomId string) (game.RoomSnapshot, error)
	Enter(roomId string, ref game.CharacterRef) error
	Leave(roomId string, ref game.CharacterRef)
}

// Persister writes a save back to durable storage.
type Persister interface {
	Persist(save *game.Save) error
}

// Deliverer routes messages to other actors. Delivery is asynchronous,
// at-most-once, best-effort: posting to a terminated actor silently fails.
type Deliverer interface {
	DeliverEffects(roomId string, from, target game.CharacterRef, skillName string, deltas []game.Delta) bool
	Post(sessionId string, ev Event) bool
}

// Subscriber provides the ability to subscribe to message subjects.
type Subscriber interface {
	Subscribe(subject string, handler func(data []byte)) (unsubscribe func(), err error)
}

// Session is the per-connection actor. It owns all mutable player state and
// processes one message (input line, delivered event, broadcast, cooldown
// wake, disconnect) to completion before the next, which is what makes the
// cast lifecycle safe without locks.
type Session struct {
	id   string
	conn io.ReadWriter

	state      State
	dispatcher *Dispatcher
	engine     *skills.Engine
	bus        *channels.Bus
	rooms      RoomAuthority
	persister  Persister
	deliver    Deliverer
	hinter     *Hinter
	subscriber Subscriber

	msgs   chan []byte
	events chan Event

	// done is closed when another connection takes over this character.
	done     chan struct{}
	evictMsg string
	evictFn  sync.Once

	// stopped is closed once Run has fully returned, teardown included. The
	// manager waits on it during a takeover before loading the save.
	stopped chan struct{}

	subs map[string]func()
}

// Id returns the session's registry handle.
func (s *Session) Id() string {
	return s.id
}

// UserId returns the numeric id of the character this session owns.
func (s *Session) UserId() int64 {
	return s.state.UserId
}

// Evict signals the running actor that its character has been taken over.
func (s *Session) Evict(msg string) {
	s.evictFn.Do(func() {
		s.evictMsg = msg
		close(s.done)
	})
}

// Run drives the actor until disconnect. On exit the session tears down its
// subscriptions and stops processing; any message addressed to it afterwards
// is silently undeliverable. Room departure and the final persist happen in
// the manager, which knows whether this session still owns the character.
func (s *Session) Run(ctx context.Context) error {
	defer close(s.stopped)
	// Registered before attach so a partial attach still unwinds whatever it
	// managed to subscribe.
	defer s.teardown()

	if err := s.attach(); err != nil {
		return err
	}

	s.writeLine(fmt.Sprintf("Welcome, %s!", s.state.Save.Name))
	s.writeLine(`Type "skills" to see what you can do.`)

	inputChan := make(chan string)
	inputErrChan := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(s.conn)
		for scanner.Scan() {
			inputChan <- scanner.Text()
		}
		inputErrChan <- scanner.Err()
		close(inputChan)
	}()

	if err := s.prompt(); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-s.done:
			s.writeLine("\n" + s.evictMsg)
			return game.ErrSessionExists

		case msg := <-s.msgs:
			s.writeLine("\n" + string(msg))
			if err := s.prompt(); err != nil {
				return err
			}

		case ev := <-s.events:
			quit := s.handleEvent(ev)
			if quit {
				return nil
			}

		case line, ok := <-inputChan:
			if !ok {
				select {
				case err := <-inputErrChan:
					return err
				default:
					return nil
				}
			}

			if err := s.handleLine(line); err != nil {
				return err
			}
			if s.state.Quit {
				s.writeLine("Goodbye!")
				return nil
			}
			if err := s.prompt(); err != nil {
				return err
			}
		}
	}
}

// attach enters the room and wires up broker subscriptions: the session's
// private subject, the room's ambient subject, and every channel the save is
// subscribed to.
func (s *Session) attach() error {
	save := &s.state.Save

	if err := s.rooms.Enter(save.RoomId, save.Ref()); err != nil {
		return fmt.Errorf("entering room: %w", err)
	}

	if err := s.subscribe(messaging.SessionSubject(s.id)); err != nil {
		return err
	}
	if err := s.subscribe(rooms.Subject(save.RoomId)); err != nil {
		return err
	}

	for _, name := range save.Channels {
		if st := s.bus.Join(name, s.id); st != channels.StatusOK {
			slog.Warn("restoring channel subscription", "channel", name, "status", st)
			continue
		}
		if err := s.subscribe(channels.Subject(name)); err != nil {
			return err
		}
	}

	return nil
}

func (s *Session) subscribe(subject string) error {
	if _, exists := s.subs[subject]; exists {
		return nil
	}
	// Best-effort delivery: a mailbox that has backed up, or an actor that
	// has already stopped reading, drops the message rather than wedging the
	// broker's dispatch goroutine.
	unsub, err := s.subscriber.Subscribe(subject, func(data []byte) {
		select {
		case s.msgs <- data:
		default:
		}
	})
	if err != nil {
		return fmt.Errorf("subscribing to %s: %w", subject, err)
	}
	s.subs[subject] = unsub
	return nil
}

func (s *Session) unsubscribe(subject string) {
	if unsub, ok := s.subs[subject]; ok {
		unsub()
		delete(s.subs, subject)
	}
}

func (s *Session) teardown() {
	for subject, unsub := range s.subs {
		unsub()
		delete(s.subs, subject)
	}

	s.bus.Drop(s.id)
}

// finalSave returns the save for disconnect bookkeeping. Only the manager
// reads it, and only after Run has returned.
func (s *Session) finalSave() *game.Save {
	return &s.state.Save
}

func (s *Session) handleLine(line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}

	next := s.state.Clone()
	next.LastActivity = time.Now()
	s.state = next

	cmd := s.dispatcher.Parse(s.state.Mode, line)
	return s.handleCommand(cmd)
}

func (s *Session) handleCommand(cmd Command) error {
	switch c := cmd.(type) {
	case BadParseCommand:
		// Echo the original text verbatim; no state changes.
		s.writeLine(fmt.Sprintf("I don't know what to do with: %s", c.Original))

	case SkillListCommand:
		for _, line := range s.engine.List(&s.state.Save, c.All) {
			s.writeLine(line)
		}

	case QuitCommand:
		next := s.state.Clone()
		next.Quit = true
		s.state = next

	case ChannelListCommand:
		s.writeLine("Channels:")
		for _, name := range s.bus.Names() {
			marker := " "
			if s.state.Save.Subscribed(name) {
				marker = "*"
			}
			s.writeLine(fmt.Sprintf(" %s %s", marker, name))
		}

	case ChannelOnCommand:
		s.handleChannelOn(c.Name)

	case ChannelOffCommand:
		s.handleChannelOff(c.Name)

	case ChannelSendCommand:
		s.handleChannelSend(c.Name, c.Message)

	case CastCommand:
		s.handleCast(c.SkillId, c.Fragment)
	}

	return nil
}

func (s *Session) handleChannelOn(name string) {
	switch s.bus.Join(name, s.id) {
	case channels.StatusNotFound:
		s.writeLine("There is no channel by that name.")
	case channels.StatusAlreadyJoined:
		s.writeLine("You are already part of this channel.")
	case channels.StatusOK:
		if err := s.subscribe(channels.Subject(name)); err != nil {
			slog.Warn("subscribing to channel", "channel", name, "error", err)
		}
		next := s.state.Clone()
		next.Save.AddChannel(name)
		s.state = next
		s.writeLine(fmt.Sprintf("You have joined %s.", name))
	}
}

func (s *Session) handleChannelOff(name string) {
	switch s.bus.Leave(name, s.id) {
	case channels.StatusNotFound:
		s.writeLine("There is no channel by that name.")
	case channels.StatusNotJoined:
		s.writeLine("You are not part of that channel.")
	case channels.StatusOK:
		s.unsubscribe(channels.Subject(name))
		next := s.state.Clone()
		next.Save.RemoveChannel(name)
		s.state = next
		s.writeLine(fmt.Sprintf("You have left %s.", name))
	}
}

func (s *Session) handleChannelSend(name, message string) {
	status, err := s.bus.Send(name, s.id, s.state.Save.Name, message)
	if err != nil {
		slog.Warn("channel send", "channel", name, "error", err)
		return
	}
	switch status {
	case channels.StatusNotFound:
		s.writeLine("There is no channel by that name.")
	case channels.StatusNotJoined:
		s.writeLine("You are not part of this channel.")
	}
}

func (s *Session) handleCast(skillId, fragment string) {
	// A stale or missing room surfaces as an empty snapshot, which resolves
	// targets to not-found rather than failing the session.
	room, err := s.rooms.Lookup(s.state.Save.RoomId)
	if err != nil {
		slog.Warn("room lookup", "room", s.state.Save.RoomId, "error", err)
	}

	now := time.Now()
	next, res := s.engine.Cast(now, s.state.CastState(), room, skillId, fragment)
	s.state = s.state.WithCast(next)

	if res.TargetSwitched {
		s.writeLine(fmt.Sprintf("You are now targeting %s.", res.Target.Name))
	}

	switch res.Outcome {
	case skills.OutcomeCooldownActive:
		text := res.Text
		hint := s.hinter.Gate(&s.state.Save, HintSkillCooldown, struct{ Remaining string }{
			Remaining: res.Remaining.Round(time.Millisecond * 100).String(),
		})
		if hint != "" {
			text += " " + hint
		}
		s.writeLine(text)

	case skills.OutcomeApplied:
		s.writeLine(res.Text)

		caster := s.state.Save.Ref()
		if !s.deliver.DeliverEffects(s.state.Save.RoomId, caster, res.Target, res.Skill.Name, res.Deltas) {
			slog.Debug("effect delivery dropped", "target", res.Target.Id)
		}

		if cd := res.Skill.Cooldown.Std(); cd > 0 {
			// Advisory wake only; the handler re-checks the cooldown map.
			id, sessionId, deliver := res.SkillId, s.id, s.deliver
			time.AfterFunc(cd, func() {
				deliver.Post(sessionId, CooldownReadyEvent{SkillId: id})
			})
		}

	default:
		s.writeLine(res.Text)
	}
}

// handleEvent processes one mailbox event. It returns true when the session
// should terminate.
func (s *Session) handleEvent(ev Event) bool {
	switch e := ev.(type) {
	case EffectsEvent:
		next := s.state.Clone()
		for _, d := range e.Deltas {
			next.Save.Stats.ApplyDelta(d)
		}
		s.state = next

		for _, line := range skills.DescribeDeltas(e.From, e.SkillName, e.Deltas) {
			s.writeLine(line)
		}
		if err := s.prompt(); err != nil {
			return true
		}

	case CooldownReadyEvent:
		if !s.engine.Ready(time.Now(), s.state.Cooldowns, e.SkillId) {
			return false
		}
		if skill := s.engine.Get(e.SkillId); skill != nil {
			s.writeLine(fmt.Sprintf("%s is ready.", skill.Name))
			if err := s.prompt(); err != nil {
				return true
			}
		}

	case CheckpointEvent:
		if err := s.persister.Persist(&s.state.Save); err != nil {
			slog.Warn("checkpoint persist", "user", s.state.UserId, "error", err)
		}
		if e.IdleCutoff > 0 && time.Since(s.state.LastActivity) > e.IdleCutoff {
			s.writeLine("\nDisconnected for inactivity.")
			return true
		}
	}

	return false
}

func (s *Session) prompt() error {
	stats := s.state.Save.Stats
	_, err := s.conn.Write(fmt.Appendf(nil, "[%d/%dHP %dSP] > ", stats.CurrentHP, stats.MaxHP, stats.SkillPoints))
	return err
}

func (s *Session) writeLine(msg string) {
	if _, err := s.conn.Write([]byte(display.Wrap(msg) + "\n")); err != nil {
		slog.Warn("writing to session", "session", s.id, "error", err)
	}
}
