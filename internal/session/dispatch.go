package session

import (
	"strings"

	"github.com/pixil98/go-mudsession/internal/channels"
	"github.com/pixil98/go-mudsession/internal/skills"
)

// Command is a typed, parsed command value routed to its owning handler.
type Command interface {
	command()
}

// SkillListCommand shows the skill table ("skills" / "skills all").
type SkillListCommand struct {
	All bool
}

// CastCommand casts a skill, optionally at an explicitly named target.
type CastCommand struct {
	SkillId  string
	Fragment string
}

// ChannelListCommand lists broadcast channels ("channels").
type ChannelListCommand struct{}

// ChannelOnCommand subscribes to a channel ("channels on <name>").
type ChannelOnCommand struct {
	Name string
}

// ChannelOffCommand unsubscribes from a channel ("channels off <name>").
type ChannelOffCommand struct {
	Name string
}

// ChannelSendCommand broadcasts a message ("<channel> <message>").
type ChannelSendCommand struct {
	Name    string
	Message string
}

// QuitCommand ends the session.
type QuitCommand struct{}

// BadParseCommand is input no grammar accepted. The original text must be
// echoed back verbatim and nothing may mutate.
type BadParseCommand struct {
	Original string
}

func (SkillListCommand) command()   {}
func (CastCommand) command()        {}
func (ChannelListCommand) command() {}
func (ChannelOnCommand) command()   {}
func (ChannelOffCommand) command()  {}
func (ChannelSendCommand) command() {}
func (QuitCommand) command()        {}
func (BadParseCommand) command()    {}

// Dispatcher turns raw input lines into typed command values. Literal-prefix
// commands ("skills", "channels", "quit") are matched before the generic
// skill-keyword and channel-send grammars.
type Dispatcher struct {
	engine *skills.Engine
	bus    *channels.Bus
}

func NewDispatcher(engine *skills.Engine, bus *channels.Bus) *Dispatcher {
	return &Dispatcher{
		engine: engine,
		bus:    bus,
	}
}

// Parse maps a line of input to a command under the given mode's grammar.
func (d *Dispatcher) Parse(mode Mode, line string) Command {
	if mode != ModeCommands {
		return BadParseCommand{Original: line}
	}

	trimmed := strings.TrimSpace(line)
	fields := strings.Fields(trimmed)
	if len(fields) == 0 {
		return BadParseCommand{Original: line}
	}

	switch strings.ToLower(fields[0]) {
	case "skills":
		switch {
		case len(fields) == 1:
			return SkillListCommand{}
		case len(fields) == 2 && strings.EqualFold(fields[1], "all"):
			return SkillListCommand{All: true}
		}
		return BadParseCommand{Original: line}

	case "channels":
		switch {
		case len(fields) == 1:
			return ChannelListCommand{}
		case len(fields) == 3 && strings.EqualFold(fields[1], "on"):
			return ChannelOnCommand{Name: strings.ToLower(fields[2])}
		case len(fields) == 3 && strings.EqualFold(fields[1], "off"):
			return ChannelOffCommand{Name: strings.ToLower(fields[2])}
		}
		return BadParseCommand{Original: line}

	case "quit":
		if len(fields) == 1 {
			return QuitCommand{}
		}
		return BadParseCommand{Original: line}
	}

	// "<channelName> <message>" sends to a channel the bus knows about.
	if d.bus.Exists(strings.ToLower(fields[0])) {
		if len(fields) < 2 {
			return BadParseCommand{Original: line}
		}
		name := strings.ToLower(fields[0])
		return ChannelSendCommand{
			Name:    name,
			Message: strings.TrimSpace(trimmed[len(fields[0]):]),
		}
	}

	if id, fragment, ok := d.engine.Match(trimmed); ok {
		return CastCommand{SkillId: id, Fragment: fragment}
	}

	return BadParseCommand{Original: line}
}
