package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/Dosada05/arena/models"
)

// StandingsArchiver keeps a copy of final standings outside the database.
type StandingsArchiver interface {
	// Archive stores the standings and returns where they can be read, or ""
	// when archiving is disabled.
	Archive(ctx context.Context, standings *models.Standings) (string, error)
}

type uploaderArchiver struct {
	uploader FileUploader
}

func NewStandingsArchiver(uploader FileUploader) StandingsArchiver {
	return &uploaderArchiver{uploader: uploader}
}

func StandingsKey(s *models.Standings) string {
	return fmt.Sprintf("standings/%s/%d.json", s.Kind, s.CompetitionID)
}

func (a *uploaderArchiver) Archive(ctx context.Context, s *models.Standings) (string, error) {
	body, err := json.MarshalIndent(s, "", "\t")
	if err != nil {
		return "", fmt.Errorf("failed to encode standings of competition %d: %w", s.CompetitionID, err)
	}

	res, err := a.uploader.Upload(ctx, StandingsKey(s), "application/json", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	if res.Location != "" {
		return res.Location, nil
	}
	return res.Key, nil
}

type nopArchiver struct{}

// NewNopArchiver is used when no object storage is configured.
func NewNopArchiver() StandingsArchiver {
	return nopArchiver{}
}

func (nopArchiver) Archive(context.Context, *models.Standings) (string, error) {
	return "", nil
}
