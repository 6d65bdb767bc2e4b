// Package eventrepo is the append-only parcel event log.
package eventrepo

import (
	"time"

	"pickupoint/internal/core/domain/model/kernel"
	"pickupoint/internal/core/domain/model/parcel"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// EventDTO is one row of the log. Seq orders events written in the same
// instant and drives keyset pagination.
type EventDTO struct {
	Seq        int64      `gorm:"primaryKey;autoIncrement"`
	ID         uuid.UUID  `gorm:"type:uuid;uniqueIndex"`
	ParcelID   uuid.UUID  `gorm:"type:uuid;index:idx_parcel_events_timeline,priority:1"`
	Kind       string     `gorm:"size:32"`
	FromStatus *string    `gorm:"size:32"`
	ToStatus   *string    `gorm:"size:32"`
	ActorID    *uuid.UUID `gorm:"type:uuid"`
	ActorRole  string     `gorm:"size:16"`
	Note       string
	Metadata   datatypes.JSONMap
	CreatedAt  time.Time `gorm:"autoCreateTime:false;index:idx_parcel_events_timeline,priority:2"`
}

func (EventDTO) TableName() string {
	return "parcel_events"
}

func statusName(s *parcel.Status) *string {
	if s == nil {
		return nil
	}
	name := s.String()
	return &name
}

func parseStatus(name *string) (*parcel.Status, error) {
	if name == nil {
		return nil, nil
	}
	s, err := parcel.ParseStatus(*name)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func fromDomain(e *parcel.Event) EventDTO {
	return EventDTO{
		ID:         e.ID().Bytes(),
		ParcelID:   e.ParcelID().Bytes(),
		Kind:       string(e.Kind()),
		FromStatus: statusName(e.From()),
		ToStatus:   statusName(e.To()),
		ActorID:    kernel.OptionalToGoogle(e.Actor().ID),
		ActorRole:  e.Actor().Role.String(),
		Note:       e.Note(),
		Metadata:   datatypes.JSONMap(e.Metadata()),
		CreatedAt:  e.CreatedAt(),
	}
}

func toDomain(dto EventDTO) (*parcel.Event, error) {
	id, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return nil, err
	}
	parcelID, err := kernel.UUIDFromGoogle(dto.ParcelID)
	if err != nil {
		return nil, err
	}
	from, err := parseStatus(dto.FromStatus)
	if err != nil {
		return nil, err
	}
	to, err := parseStatus(dto.ToStatus)
	if err != nil {
		return nil, err
	}
	role, err := parcel.ParseActorRole(dto.ActorRole)
	if err != nil {
		return nil, err
	}
	actorID, err := kernel.OptionalUUIDFromGoogle(dto.ActorID)
	if err != nil {
		return nil, err
	}

	return parcel.RestoreEvent(
		id, parcelID,
		parcel.EventKind(dto.Kind),
		from, to,
		parcel.Actor{ID: actorID, Role: role},
		dto.Note,
		map[string]any(dto.Metadata),
		dto.CreatedAt.UTC(),
	)
}
