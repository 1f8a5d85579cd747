package db

import (
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/muezzin/internal/model"
)

func (s *pgStore) RecordAnnouncement(a model.Announcement) error {
	const q = `
	INSERT INTO announcements (id, kind, prayer, minutes_remaining, message, prayer_at, created_at)
	VALUES (:id, :kind, :prayer, :minutes_remaining, :message, :prayer_at, :created_at);`
	if _, err := s.db.NamedExec(q, a); err != nil {
		log.Error().Err(err).Str("prayer", string(a.Prayer)).Msg("RecordAnnouncement failed")
		return err
	}
	return nil
}

func (s *pgStore) ListAnnouncements(limit int) ([]model.Announcement, error) {
	out := []model.Announcement{}
	const q = `
	SELECT id, kind, prayer, minutes_remaining, message, prayer_at, created_at
	  FROM announcements
	 ORDER BY created_at DESC
	 LIMIT $1;`
	if err := s.db.Select(&out, q, limit); err != nil {
		log.Error().Err(err).Msg("ListAnnouncements failed")
		return nil, err
	}
	return out, nil
}
