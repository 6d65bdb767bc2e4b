package walletrepo

import (
	"context"
	"errors"

	"pickupoint/internal/core/domain/model/kernel"
	"pickupoint/internal/core/domain/model/wallet"
	"pickupoint/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormWalletRepository implements ports.WalletRepository using GORM.
type GormWalletRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormWalletRepository(db *gorm.DB, tracker aggregateTracker) *GormWalletRepository {
	return &GormWalletRepository{db: db, tracker: tracker}
}

func (r *GormWalletRepository) Add(ctx context.Context, aggregate *wallet.Wallet) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update is conditional on the version the wallet was loaded with, so two
// distributions crediting the same relay owner cannot lose a credit.
func (r *GormWalletRepository) Update(ctx context.Context, aggregate *wallet.Wallet) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	loaded := dto.Version
	dto.Version = loaded + 1

	result := r.db.WithContext(ctx).
		Model(&WalletDTO{}).
		Where("id = ? AND version = ?", dto.ID, loaded).
		Select("*").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewVersionIsInvalidError("wallet " + aggregate.ID().String())
	}

	aggregate.SyncVersion(dto.Version)
	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormWalletRepository) Get(ctx context.Context, id kernel.UUID) (*wallet.Wallet, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto WalletDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("wallet", id.String())
		}
		return nil, err
	}
	return toDomain(dto)
}

func (r *GormWalletRepository) GetByOwner(ctx context.Context, ownerID kernel.UUID, kind wallet.OwnerKind) (*wallet.Wallet, error) {
	var dto WalletDTO
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND owner_kind = ?", ownerID.Bytes(), kind.String()).
		First(&dto).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError(kind.String()+" wallet", ownerID.String())
		}
		return nil, err
	}
	return toDomain(dto)
}

// AddTransaction appends a ledger line. Lines are never updated.
func (r *GormWalletRepository) AddTransaction(ctx context.Context, tx *wallet.Transaction) error {
	if tx == nil {
		return errs.NewValueIsRequiredError("transaction")
	}
	dto := transactionFromDomain(tx)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// GormSettlementRepository implements ports.SettlementRepository using GORM.
type GormSettlementRepository struct {
	db *gorm.DB
}

func NewGormSettlementRepository(db *gorm.DB) *GormSettlementRepository {
	return &GormSettlementRepository{db: db}
}

func (r *GormSettlementRepository) Exists(ctx context.Context, parcelID kernel.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&SettlementDTO{}).
		Where("parcel_id = ?", parcelID.Bytes()).
		Count(&count).Error
	return count > 0, err
}

// Add fails on the primary key when the parcel was already settled, which
// rolls back a concurrent second distribution.
func (r *GormSettlementRepository) Add(ctx context.Context, s wallet.Settlement) error {
	dto := SettlementDTO{
		ParcelID:         s.ParcelID.Bytes(),
		Price:            s.Price,
		Platform:         s.Platform,
		OriginRelay:      s.OriginRelay,
		DestinationRelay: s.DestinationRelay,
		Courier:          s.Courier,
		CreatedAt:        s.CreatedAt,
	}
	return r.db.WithContext(ctx).Create(&dto).Error
}
