package notify

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/muezzin/internal/model"
)

// AssetSource resolves the azan recording to a local file.
type AssetSource interface {
	Path(ctx context.Context) (string, error)
}

type Player interface {
	Play(ctx context.Context, path string) error
}

// Audio plays the azan when a prayer arrives. Staged reminders are silent.
type Audio struct {
	assets AssetSource
	player Player
}

func NewAudio(assets AssetSource, player Player) *Audio {
	return &Audio{assets: assets, player: player}
}

func (a *Audio) Stage(context.Context, model.Label, int) error { return nil }

func (a *Audio) Arrival(ctx context.Context, label model.Label) error {
	path, err := a.assets.Path(ctx)
	if err != nil {
		return fmt.Errorf("azan unavailable: %w", err)
	}
	log.Info().Str("prayer", string(label)).Str("file", path).Msg("playing azan")
	if err := a.player.Play(ctx, path); err != nil {
		return fmt.Errorf("play azan: %w", err)
	}
	return nil
}
