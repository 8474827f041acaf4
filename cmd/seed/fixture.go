package main

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"linkhive/internal/domain/models"
)

//go:embed seed.yaml
var defaultFixture []byte

// Fixture describes the users and content the seeder creates
type Fixture struct {
	Users       []SeedUser       `yaml:"users"`
	Folders     []SeedFolder     `yaml:"folders"`
	Collections []SeedCollection `yaml:"collections"`
}

// SeedUser is created through the admin API when a service key is
// configured; otherwise ID is used as-is
type SeedUser struct {
	Key      string `yaml:"key"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	ID       string `yaml:"id"`
}

type SeedFolder struct {
	Owner     string         `yaml:"owner"` // root folders only; children inherit
	Name      string         `yaml:"name"`
	Color     *string        `yaml:"color"`
	Icon      *string        `yaml:"icon"`
	Bookmarks []SeedBookmark `yaml:"bookmarks"`
	Share     []SeedShare    `yaml:"share"`
	Children  []SeedFolder   `yaml:"children"`
}

type SeedBookmark struct {
	URL   string `yaml:"url"`
	Title string `yaml:"title"`
}

type SeedShare struct {
	User       string            `yaml:"user"`
	Permission models.Permission `yaml:"permission"`
}

type SeedCollection struct {
	Owner       string      `yaml:"owner"`
	Name        string      `yaml:"name"`
	Description *string     `yaml:"description"`
	Public      bool        `yaml:"public"`
	Share       []SeedShare `yaml:"share"`
}

// LoadFixture reads path, or the embedded default when path is empty
func LoadFixture(path string) (*Fixture, error) {
	data := defaultFixture
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open fixture: %w", err)
		}
		defer f.Close()
		if data, err = io.ReadAll(f); err != nil {
			return nil, fmt.Errorf("read fixture: %w", err)
		}
	}
	return ParseFixture(data)
}

// ParseFixture decodes and cross-checks a fixture. Unknown keys are errors.
func ParseFixture(data []byte) (*Fixture, error) {
	var fx Fixture
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fx); err != nil {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}
	if err := fx.validate(); err != nil {
		return nil, err
	}
	return &fx, nil
}

func (fx *Fixture) validate() error {
	users := make(map[string]bool, len(fx.Users))
	for _, u := range fx.Users {
		if u.Key == "" {
			return fmt.Errorf("user %q: key is required", u.Email)
		}
		if users[u.Key] {
			return fmt.Errorf("user %q declared twice", u.Key)
		}
		users[u.Key] = true
	}

	checkShares := func(where string, shares []SeedShare) error {
		for _, s := range shares {
			if !users[s.User] {
				return fmt.Errorf("%s: unknown user %q", where, s.User)
			}
			if !s.Permission.Grantable() {
				return fmt.Errorf("%s: invalid permission %q", where, s.Permission)
			}
		}
		return nil
	}

	var walk func(path string, folders []SeedFolder) error
	walk = func(path string, folders []SeedFolder) error {
		for _, f := range folders {
			where := path + "/" + f.Name
			if err := checkShares("folder "+where, f.Share); err != nil {
				return err
			}
			if err := walk(where, f.Children); err != nil {
				return err
			}
		}
		return nil
	}

	for _, f := range fx.Folders {
		if !users[f.Owner] {
			return fmt.Errorf("folder %q: unknown owner %q", f.Name, f.Owner)
		}
		if err := walk("", []SeedFolder{f}); err != nil {
			return err
		}
	}
	for _, c := range fx.Collections {
		if !users[c.Owner] {
			return fmt.Errorf("collection %q: unknown owner %q", c.Name, c.Owner)
		}
		if err := checkShares("collection "+c.Name, c.Share); err != nil {
			return err
		}
	}
	return nil
}
