package db

import (
	"fmt"
	"sort"
	"sync"

	"github.com/Nixie-Tech-LLC/muezzin/internal/model"
)

// memStore keeps everything in process memory. It is used when no
// DATABASE_URL is configured and in tests.
type memStore struct {
	mu            sync.RWMutex
	schedules     map[ScheduleKey]model.DaySchedule
	announcements []model.Announcement
}

var _ Store = (*memStore)(nil)

func NewMemoryStore() Store {
	return &memStore{schedules: make(map[ScheduleKey]model.DaySchedule)}
}

func (m *memStore) SaveSchedule(day model.DaySchedule) error {
	if missing := day.Times.Missing(); len(missing) > 0 {
		return fmt.Errorf("schedule for %s is missing %v", day.Date, missing)
	}
	times := make(model.Schedule, len(day.Times))
	for l, t := range day.Times {
		times[l] = t
	}
	day.Times = times

	m.mu.Lock()
	defer m.mu.Unlock()
	m.schedules[KeyOf(day)] = day
	return nil
}

func (m *memStore) GetSchedule(key ScheduleKey) (model.DaySchedule, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	day, ok := m.schedules[key]
	if !ok {
		return model.DaySchedule{}, ErrNotFound
	}
	return day, nil
}

func (m *memStore) RecordAnnouncement(a model.Announcement) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.announcements = append(m.announcements, a)
	return nil
}

func (m *memStore) ListAnnouncements(limit int) ([]model.Announcement, error) {
	m.mu.RLock()
	out := append([]model.Announcement(nil), m.announcements...)
	m.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
