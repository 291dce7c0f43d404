package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/makanlah/backend/internal/models"
	"gorm.io/gorm"
)

var (
	ErrVoucherNotFound   = errors.New("voucher not found")
	ErrVoucherExpired    = errors.New("voucher has expired")
	ErrVoucherExhausted  = errors.New("voucher redemption limit reached")
	ErrInsufficientCoins = errors.New("insufficient coin balance")
)

type VoucherService struct {
	db *gorm.DB
}

func NewVoucherService(db *gorm.DB) *VoucherService {
	return &VoucherService{db: db}
}

func (s *VoucherService) ListVouchers(ctx context.Context) ([]models.Voucher, error) {
	var vouchers []models.Voucher
	err := s.db.WithContext(ctx).
		Where("expires_at > ?", time.Now()).
		Order("coin_cost ASC").
		Find(&vouchers).Error
	return vouchers, err
}

// Redeem performs the four redemption writes (balance debit, redemption
// record, counter bump, coin ledger entry) in a single transaction, so a
// mid-sequence failure cannot strand a user's coins.
func (s *VoucherService) Redeem(ctx context.Context, voucherID, userID uuid.UUID) (*models.UserVoucher, error) {
	var redemption *models.UserVoucher

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var voucher models.Voucher
		err := tx.First(&voucher, "id = ?", voucherID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrVoucherNotFound
		}
		if err != nil {
			return err
		}
		if !voucher.ExpiresAt.IsZero() && voucher.ExpiresAt.Before(time.Now()) {
			return ErrVoucherExpired
		}
		if voucher.MaxRedemptions > 0 && voucher.RedeemedCount >= voucher.MaxRedemptions {
			return ErrVoucherExhausted
		}

		var user models.User
		if err := tx.First(&user, "id = ?", userID).Error; err != nil {
			return err
		}
		if user.CoinBalance < voucher.CoinCost {
			return ErrInsufficientCoins
		}

		if err := tx.Model(&user).
			Update("coin_balance", gorm.Expr("coin_balance - ?", voucher.CoinCost)).Error; err != nil {
			return err
		}

		redemption = &models.UserVoucher{
			ID:        uuid.New(),
			UserID:    userID,
			VoucherID: voucherID,
		}
		if err := tx.Create(redemption).Error; err != nil {
			return err
		}

		if err := tx.Model(&voucher).
			Update("redeemed_count", gorm.Expr("redeemed_count + 1")).Error; err != nil {
			return err
		}

		ledger := models.CoinTransaction{
			ID:     uuid.New(),
			UserID: userID,
			Amount: -voucher.CoinCost,
			Reason: "voucher redemption: " + voucher.Code,
		}
		return tx.Create(&ledger).Error
	})
	if err != nil {
		return nil, err
	}
	return redemption, nil
}

func (s *VoucherService) ListUserVouchers(ctx context.Context, userID uuid.UUID) ([]models.UserVoucher, error) {
	var redemptions []models.UserVoucher
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&redemptions).Error
	return redemptions, err
}
