package command

import (
	"fmt"
	"os"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-mudsession/internal/game"
	"github.com/pixil98/go-mudsession/internal/rooms"
	"github.com/pixil98/go-mudsession/internal/storage"
)

type StorageConfig struct {
	Saves  AssetConfig[*game.Save]  `json:"saves"`
	Skills AssetConfig[*game.Skill] `json:"skills"`
	Rooms  AssetConfig[*rooms.Room] `json:"rooms"`
}

func (c *StorageConfig) validate() error {
	el := errors.NewErrorList()
	el.Add(c.Saves.Validate("saves"))
	el.Add(c.Skills.Validate("skills"))
	el.Add(c.Rooms.Validate("rooms"))
	return el.Err()
}

type AssetConfig[T storage.ValidatingSpec] struct {
	Path string `json:"path"`
}

func (c *AssetConfig[T]) Validate(name string) error {
	if c.Path == "" {
		return fmt.Errorf("%s: path is required", name)
	}
	_, err := os.Stat(c.Path)
	if err != nil {
		return fmt.Errorf("%s: invalid path %q: %w", name, c.Path, err)
	}

	return nil
}

func (c *AssetConfig[T]) BuildFileStore() (*storage.FileStore[T], error) {
	return storage.NewFileStore[T](c.Path)
}
