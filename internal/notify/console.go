package notify

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/muezzin/internal/display"
	"github.com/Nixie-Tech-LLC/muezzin/internal/model"
)

// Console prints announcements to w.
type Console struct {
	mu sync.Mutex
	w  io.Writer
}

func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

func (c *Console) Stage(_ context.Context, label model.Label, minutes int) error {
	msg := display.Message(label, minutes)
	log.Info().Str("prayer", string(label)).Int("minutes", minutes).Msg(msg)

	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := fmt.Fprintf(c.w, "\nANNOUNCEMENT: %s\n", msg)
	return err
}

func (c *Console) Arrival(_ context.Context, label model.Label) error {
	log.Info().Str("prayer", string(label)).Msg("prayer time")

	c.mu.Lock()
	defer c.mu.Unlock()
	display.Banner(c.w, label)
	return nil
}
