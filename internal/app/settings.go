package app

import (
	"github.com/spf13/cast"
	"gorm.io/gorm"

	"github.com/tiprecycle/shopd/internal/domain"
)

// SettingsManager reads and writes the sys_setting table. Values are
// stored as strings; the typed getters cast on the way out and return
// zero values for unknown keys.
type SettingsManager struct {
	db *gorm.DB
}

func NewSettingsManager(db *gorm.DB) *SettingsManager {
	return &SettingsManager{db: db}
}

func (m *SettingsManager) GetString(category, name string) string {
	var setting domain.SysSetting
	err := m.db.Where("type = ? and name = ?", category, name).First(&setting).Error
	if err != nil {
		return ""
	}
	return setting.Value
}

func (m *SettingsManager) GetInt64(category, name string) int64 {
	return cast.ToInt64(m.GetString(category, name))
}

func (m *SettingsManager) GetBool(category, name string) bool {
	return cast.ToBool(m.GetString(category, name))
}

// Set updates an existing setting or creates it.
func (m *SettingsManager) Set(category, name, value string) error {
	var setting domain.SysSetting
	err := m.db.Where("type = ? and name = ?", category, name).First(&setting).Error
	if err == gorm.ErrRecordNotFound {
		return m.db.Create(&domain.SysSetting{
			Type:  category,
			Name:  name,
			Value: value,
		}).Error
	}
	if err != nil {
		return err
	}
	return m.db.Model(&domain.SysSetting{}).
		Where("id = ?", setting.ID).
		Update("value", value).Error
}
