package session

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"unicode"

	"github.com/pixil98/go-mudsession/internal"
	"github.com/pixil98/go-mudsession/internal/game"
	"github.com/pixil98/go-mudsession/internal/storage"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const maxPasswordTries = 3

var nameCaser = cases.Title(language.English)

// loginFlow authenticates a raw connection before it becomes a session.
// Saves are keyed by lowercase name; passwords are bcrypt hashes.
type loginFlow struct {
	saves         storage.Storer[*game.Save]
	defaultRoom   string
	starterSkills []string
	nextId        func() int64
}

func (f *loginFlow) Run(rw io.ReadWriter) (*game.Save, error) {
	if _, err := rw.Write([]byte("Welcome, traveler.\n")); err != nil {
		return nil, err
	}

	for {
		name, err := internal.Prompt(rw, "By what name do you wish to be known? ",
			internal.WithValidator(validName))
		if err != nil {
			return nil, err
		}

		save := f.saves.Get(strings.ToLower(name))
		if save == nil {
			save, err = f.newCharacter(rw, name)
			if err != nil {
				return nil, err
			}
			if save == nil {
				continue
			}
			return save, nil
		}

		_, err = internal.Prompt(rw, "Password: ",
			internal.WithMaxTries(maxPasswordTries),
			internal.WithValidator(func(str string) (bool, string) {
				err := bcrypt.CompareHashAndPassword([]byte(save.Password), []byte(str))
				return err == nil, "Incorrect password.\n"
			}))
		if err != nil {
			return nil, err
		}

		return save, nil
	}
}

func (f *loginFlow) newCharacter(rw io.ReadWriter, name string) (*game.Save, error) {
	ok, err := internal.PromptYN(rw, fmt.Sprintf("Did I get that right, %s (Y/N)? ", name))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	password, err := internal.Prompt(rw, "Choose a password: ",
		internal.WithValidator(func(str string) (bool, string) {
			if len(str) < 4 {
				return false, "Passwords must be at least 4 characters.\n"
			}
			return true, ""
		}))
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	save := &game.Save{
		UserId:   f.nextId(),
		Name:     nameCaser.String(strings.ToLower(name)),
		Password: string(hash),
		Level:    1,
		Stats: game.Stats{
			MaxHP:       50,
			CurrentHP:   50,
			SkillPoints: 10,
			Strength:    10,
			Intellect:   10,
			Vitality:    10,
		},
		KnownSkillIds: slices.Clone(f.starterSkills),
		RoomId:        f.defaultRoom,
		Hints:         true,
	}

	if err := f.saves.Save(strings.ToLower(name), save); err != nil {
		return nil, fmt.Errorf("saving new character: %w", err)
	}

	return save, nil
}

func validName(str string) (bool, string) {
	if len(str) < 2 || len(str) > 20 {
		return false, "Names must be 2-20 letters.\n"
	}
	for _, r := range str {
		if !unicode.IsLetter(r) {
			return false, "Names may only contain letters.\n"
		}
	}
	return true, ""
}
