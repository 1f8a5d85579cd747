// Package audio plays recordings through an external command line player.
package audio

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/rs/zerolog/log"
)

var ErrNoPlayer = errors.New("no audio player found")

// candidates are tried in order when no command is configured.
var candidates = [][]string{
	{"mpg123", "-q"},
	{"ffplay", "-nodisp", "-autoexit", "-loglevel", "quiet"},
	{"afplay"},
	{"cvlc", "--play-and-exit", "--quiet"},
}

type Player struct {
	name string
	args []string
}

// NewPlayer builds a player from command, e.g. "mpg123 -q". An empty command
// picks the first known player found on PATH.
func NewPlayer(command string) (*Player, error) {
	if fields := strings.Fields(command); len(fields) > 0 {
		if _, err := exec.LookPath(fields[0]); err != nil {
			return nil, fmt.Errorf("audio player %q: %w", fields[0], err)
		}
		return &Player{name: fields[0], args: fields[1:]}, nil
	}
	for _, c := range candidates {
		if _, err := exec.LookPath(c[0]); err == nil {
			log.Debug().Str("player", c[0]).Msg("audio player detected")
			return &Player{name: c[0], args: c[1:]}, nil
		}
	}
	return nil, ErrNoPlayer
}

func (p *Player) String() string {
	return strings.Join(append([]string{p.name}, p.args...), " ")
}

// Play blocks until the recording ends or ctx is cancelled.
func (p *Player) Play(ctx context.Context, path string) error {
	args := append(append([]string{}, p.args...), path)
	out, err := exec.CommandContext(ctx, p.name, args...).CombinedOutput()
	if err != nil {
		if len(out) > 0 {
			return fmt.Errorf("%s: %w: %s", p.name, err, strings.TrimSpace(string(out)))
		}
		return fmt.Errorf("%s: %w", p.name, err)
	}
	return nil
}
