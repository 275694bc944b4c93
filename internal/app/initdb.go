package app

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/tiprecycle/shopd/internal/domain"
	"github.com/tiprecycle/shopd/pkg/common"
)

func (a *Application) MigrateDB() error {
	return a.gormDB.Migrator().AutoMigrate(domain.Tables...)
}

func (a *Application) DropAll() {
	_ = a.gormDB.Migrator().DropTable(domain.Tables...)
}

// checkSuper seeds the default administrator exactly once and repairs
// it if the stored row has been hand-edited into an unusable state.
func (a *Application) checkSuper() {
	const superUsername = "admin"
	const defaultPassword = "admin123"

	hashedPassword := common.Sha256Hash(defaultPassword)

	var account domain.SysAccount
	err := a.gormDB.Where("username = ?", superUsername).First(&account).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := a.gormDB.Create(&domain.SysAccount{
			ID:        common.UUIDint64(),
			Realname:  "administrator",
			Username:  superUsername,
			Password:  hashedPassword,
			Role:      domain.RoleAdmin,
			Status:    common.ENABLED,
			LastLogin: time.Now(),
		}).Error; err != nil {
			zap.L().Error("failed to create default admin", zap.Error(err))
		} else {
			zap.L().Info("initialized default admin account", zap.String("username", superUsername))
		}
		return
	case err != nil:
		zap.L().Error("failed to query default admin", zap.Error(err))
		return
	}

	resetPassword := strings.TrimSpace(account.Password) == ""
	resetRole := !strings.EqualFold(account.Role, domain.RoleAdmin)
	resetStatus := !strings.EqualFold(account.Status, common.ENABLED)

	if !resetPassword && !resetRole && !resetStatus {
		return
	}

	updates := map[string]interface{}{
		"updated_at": time.Now(),
	}
	if resetPassword {
		updates["password"] = hashedPassword
	}
	if resetRole {
		updates["role"] = domain.RoleAdmin
	}
	if resetStatus {
		updates["status"] = common.ENABLED
	}

	if err := a.gormDB.Model(&domain.SysAccount{}).Where("id = ?", account.ID).Updates(updates).Error; err != nil {
		zap.L().Error("failed to repair default admin account", zap.Error(err))
		return
	}

	zap.L().Warn("repaired default admin account",
		zap.String("username", superUsername),
		zap.Bool("passwordReset", resetPassword),
		zap.Bool("roleReset", resetRole),
		zap.Bool("statusEnabled", resetStatus))
}

// checkSettings initializes missing runtime settings with defaults.
func (a *Application) checkSettings() {
	defaults := []domain.SysSetting{
		{Sort: 1, Type: "customer", Name: "points_clamp_zero", Value: "false",
			Remark: "Floor loyalty balances at zero instead of letting deductions go negative"},
		{Sort: 2, Type: "sales", Name: "history_days", Value: "365",
			Remark: "Days of sale history kept before the nightly purge"},
		{Sort: 3, Type: "repairs", Name: "summary_enabled", Value: "true",
			Remark: "Log an hourly summary of pending repair tickets"},
	}

	for _, s := range defaults {
		var count int64
		a.gormDB.Model(&domain.SysSetting{}).
			Where("type = ? and name = ?", s.Type, s.Name).
			Count(&count)

		if count == 0 {
			if err := a.gormDB.Create(&s).Error; err != nil {
				zap.L().Error("failed to create default setting",
					zap.String("key", s.Type+"."+s.Name),
					zap.Error(err))
			} else {
				zap.L().Info("initialized setting",
					zap.String("key", s.Type+"."+s.Name),
					zap.String("default", s.Value))
			}
		}
	}
}
