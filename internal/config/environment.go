package config

import (
	"errors"
	"fmt"
	"strings"
)

// Environment selects which data file the tracker works on.
type Environment string

const (
	Development Environment = "development"
	Production  Environment = "production"
	Test        Environment = "test"
	Prototype   Environment = "prototype"
)

// Environments lists every known environment.
var Environments = []Environment{Development, Production, Test, Prototype}

// ErrLocked is returned when a locked configuration refuses a change.
var ErrLocked = errors.New("configuration is locked")

// ParseEnvironment converts a name such as "production" to an Environment.
// Matching is case-insensitive.
func ParseEnvironment(name string) (Environment, error) {
	env := Environment(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Environments {
		if env == known {
			return env, nil
		}
	}
	return "", fmt.Errorf("unknown environment %q", name)
}

func (e Environment) String() string {
	return string(e)
}
