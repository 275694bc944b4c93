// Package identity validates operator credentials against the account
// table and reports the operator's role.
package identity

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/tiprecycle/shopd/internal/domain"
	"github.com/tiprecycle/shopd/pkg/common"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrInvalidCredentials is returned for every mismatch shape: unknown
// username, wrong password, disabled account. Callers must not be able
// to tell these apart.
var ErrInvalidCredentials = errors.New("invalid username or password")

// AccountRepository interface for operator account data access
type AccountRepository interface {
	GetByUsername(ctx context.Context, username string) (*domain.SysAccount, error)
	TouchLastLogin(ctx context.Context, id int64) error
}

// GormAccountRepository is the GORM implementation of AccountRepository
type GormAccountRepository struct {
	db *gorm.DB
}

func NewGormAccountRepository(db *gorm.DB) *GormAccountRepository {
	return &GormAccountRepository{db: db}
}

func (r *GormAccountRepository) GetByUsername(ctx context.Context, username string) (*domain.SysAccount, error) {
	var acct domain.SysAccount
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&acct).Error
	if err != nil {
		return nil, err
	}
	return &acct, nil
}

func (r *GormAccountRepository) TouchLastLogin(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).
		Model(&domain.SysAccount{}).
		Where("id = ?", id).
		Update("last_login", time.Now()).Error
}

type Service struct {
	repo AccountRepository
}

func NewService(repo AccountRepository) *Service {
	return &Service{repo: repo}
}

// Authenticate compares the sha256 digest of the supplied password
// against the stored credential and returns the account role.
func (s *Service) Authenticate(ctx context.Context, username, password string) (string, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return "", ErrInvalidCredentials
	}

	acct, err := s.repo.GetByUsername(ctx, username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", errors.Wrap(err, "identity: account lookup failed")
	}

	if acct.Password != common.Sha256Hash(password) {
		return "", ErrInvalidCredentials
	}
	if !strings.EqualFold(acct.Status, common.ENABLED) {
		return "", ErrInvalidCredentials
	}

	if err := s.repo.TouchLastLogin(ctx, acct.ID); err != nil {
		zap.L().Warn("failed to record last login",
			zap.String("username", acct.Username),
			zap.Error(err))
	}

	return acct.Role, nil
}
