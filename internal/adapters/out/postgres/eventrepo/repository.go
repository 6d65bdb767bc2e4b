package eventrepo

import (
	"context"
	"iter"

	"pickupoint/internal/core/domain/model/kernel"
	"pickupoint/internal/core/domain/model/parcel"

	"gorm.io/gorm"
)

// DefaultPageSize is the number of events read per round trip by Timeline.
const DefaultPageSize = 100

// GormEventLog implements ports.EventLog using GORM. It only ever inserts.
type GormEventLog struct {
	db       *gorm.DB
	pageSize int
}

func NewGormEventLog(db *gorm.DB) *GormEventLog {
	return &GormEventLog{db: db, pageSize: DefaultPageSize}
}

// WithPageSize returns a copy reading size events per page.
func (l *GormEventLog) WithPageSize(size int) *GormEventLog {
	if size <= 0 {
		size = DefaultPageSize
	}
	return &GormEventLog{db: l.db, pageSize: size}
}

func (l *GormEventLog) Append(ctx context.Context, e *parcel.Event) error {
	if err := e.Validate(); err != nil {
		return err
	}
	dto := fromDomain(e)
	return l.db.WithContext(ctx).Create(&dto).Error
}

// Timeline yields events ordered by (created_at, seq), fetching one page at a
// time with a keyset cursor. Stopping early leaves no open cursor behind.
func (l *GormEventLog) Timeline(ctx context.Context, parcelID kernel.UUID) iter.Seq2[*parcel.Event, error] {
	return func(yield func(*parcel.Event, error) bool) {
		if err := parcelID.Validate(); err != nil {
			yield(nil, err)
			return
		}

		var cursor *EventDTO
		for {
			q := l.db.WithContext(ctx).
				Where("parcel_id = ?", parcelID.Bytes()).
				Order("created_at ASC").
				Order("seq ASC").
				Limit(l.pageSize)
			if cursor != nil {
				q = q.Where("(created_at > ? OR (created_at = ? AND seq > ?))",
					cursor.CreatedAt, cursor.CreatedAt, cursor.Seq)
			}

			var page []EventDTO
			if err := q.Find(&page).Error; err != nil {
				yield(nil, err)
				return
			}

			for i := range page {
				e, err := toDomain(page[i])
				if !yield(e, err) || err != nil {
					return
				}
			}
			if len(page) < l.pageSize {
				return
			}
			cursor = &page[len(page)-1]
		}
	}
}
