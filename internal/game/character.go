package game

import (
	"fmt"
	"strings"
)

// CharacterKind distinguishes the two character variants. Identity is always
// kind + numeric id, never object reference, so references stay comparable
// across room snapshots.
type CharacterKind int

const (
	KindUser CharacterKind = iota
	KindNPC
)

func (k CharacterKind) String() string {
	switch k {
	case KindUser:
		return "user"
	case KindNPC:
		return "npc"
	default:
		return "unknown"
	}
}

func (k *CharacterKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "user":
		*k = KindUser
	case "npc":
		*k = KindNPC
	default:
		return fmt.Errorf("unknown character kind: %s", text)
	}
	return nil
}

func (k CharacterKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// CharacterRef identifies a character present in the world.
type CharacterRef struct {
	Kind CharacterKind `json:"kind"`
	Id   int64         `json:"id"`
	Name string        `json:"name"`
}

// Equal reports whether two references point at the same character.
// Names are display-only and do not participate in identity.
func (c CharacterRef) Equal(o CharacterRef) bool {
	return c.Kind == o.Kind && c.Id == o.Id
}

// MatchName reports whether fragment matches this character's name,
// case-insensitively. A fragment matches on prefix or substring.
func (c CharacterRef) MatchName(fragment string) bool {
	if fragment == "" {
		return false
	}
	return strings.Contains(strings.ToLower(c.Name), strings.ToLower(fragment))
}
