package rooms

import (
	"fmt"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-mudsession/internal/game"
)

// NPCSpec defines an NPC spawned into a room at startup.
type NPCSpec struct {
	Id    int64      `json:"id"`
	Name  string     `json:"name"`
	Stats game.Stats `json:"stats"`
}

func (n *NPCSpec) Validate() error {
	el := errors.NewErrorList()

	if n.Id == 0 {
		el.Add(fmt.Errorf("id is required"))
	}
	if n.Name == "" {
		el.Add(fmt.Errorf("name is required"))
	}
	el.Add(n.Stats.Validate())

	return el.Err()
}

// Room is a room definition loaded from an asset file.
type Room struct {
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	NPCs        []NPCSpec `json:"npcs,omitempty"`
}

func (r *Room) Validate() error {
	el := errors.NewErrorList()

	if r.Name == "" {
		el.Add(fmt.Errorf("name is required"))
	}

	seen := make(map[int64]bool, len(r.NPCs))
	for i := range r.NPCs {
		if err := r.NPCs[i].Validate(); err != nil {
			el.Add(fmt.Errorf("npc %d: %w", i, err))
		}
		if seen[r.NPCs[i].Id] {
			el.Add(fmt.Errorf("npc %d: duplicate id %d", i, r.NPCs[i].Id))
		}
		seen[r.NPCs[i].Id] = true
	}

	return el.Err()
}
