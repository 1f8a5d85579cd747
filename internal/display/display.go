// Package display formats countdowns and announcements for people.
package display

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/Nixie-Tech-LLC/muezzin/internal/model"
)

// Remaining renders d as "1h 2m 3s", "2m 3s" or "3s".
func Remaining(d time.Duration) string {
	total := int(d / time.Second)
	if total < 0 {
		total = 0
	}
	h, m, s := total/3600, (total%3600)/60, total%60
	switch {
	case h > 0:
		return fmt.Sprintf("%dh %dm %ds", h, m, s)
	case m > 0:
		return fmt.Sprintf("%dm %ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}

// Message is the spoken/printed text of a staged reminder.
func Message(label model.Label, minutes int) string {
	if minutes >= 60 {
		h, m := minutes/60, minutes%60
		if m > 0 {
			return fmt.Sprintf("%d hour(s) and %d minute(s) until %s prayer", h, m, label)
		}
		return fmt.Sprintf("%d hour(s) until %s prayer", h, label)
	}
	return fmt.Sprintf("%d minute(s) until %s prayer", minutes, label)
}

func ArrivalMessage(label model.Label) string {
	return fmt.Sprintf("IT'S TIME FOR %s PRAYER!", strings.ToUpper(string(label)))
}

const rule = "============================================================"

// Table prints the day's prayer times.
func Table(w io.Writer, date time.Time, loc model.Location, s model.Schedule) {
	fmt.Fprintf(w, "\n%s\n", rule)
	fmt.Fprintf(w, "PRAYER TIMES FOR %s\n", strings.ToUpper(date.Format("Monday, January 02, 2006")))
	if loc.City != "" || loc.Country != "" {
		fmt.Fprintf(w, "%s, %s\n", loc.City, loc.Country)
	}
	fmt.Fprintln(w, rule)
	for _, l := range model.Labels {
		t, ok := s[l]
		if !ok {
			fmt.Fprintf(w, "  %-10s : --:--\n", l)
			continue
		}
		fmt.Fprintf(w, "  %-10s : %s\n", l, t)
	}
	fmt.Fprintf(w, "%s\n\n", rule)
}

// Banner prints the arrival notice.
func Banner(w io.Writer, label model.Label) {
	fmt.Fprintf(w, "\n\n%s\n%s\n%s\n\n", rule, ArrivalMessage(label), rule)
}

// Live redraws a single countdown line in place. On anything that is not a
// terminal it stays silent, since carriage-return redraws would flood logs.
type Live struct {
	w       io.Writer
	enabled bool
}

func NewLive(f *os.File) *Live {
	return &Live{w: f, enabled: isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())}
}

// NewLiveWriter always renders to w.
func NewLiveWriter(w io.Writer) *Live {
	return &Live{w: w, enabled: true}
}

func (l *Live) Render(label model.Label, at time.Time, remaining time.Duration) {
	if !l.enabled {
		return
	}
	fmt.Fprintf(l.w, "\rNext Prayer: %-8s at %s | Time Remaining: %-12s", label, at.Format("15:04"), Remaining(remaining))
}
