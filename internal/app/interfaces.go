package app

import (
	evbus "github.com/asaskevich/EventBus"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/tiprecycle/shopd/config"
	"github.com/tiprecycle/shopd/internal/shop/catalog"
	"github.com/tiprecycle/shopd/internal/shop/customers"
	"github.com/tiprecycle/shopd/internal/shop/identity"
	"github.com/tiprecycle/shopd/internal/shop/lookup"
	"github.com/tiprecycle/shopd/internal/shop/repairs"
)

// DBProvider provides database access
type DBProvider interface {
	DB() *gorm.DB
}

// ConfigProvider provides application configuration
type ConfigProvider interface {
	Config() *config.AppConfig
}

// SettingsProvider provides the runtime settings manager
type SettingsProvider interface {
	Settings() *SettingsManager
}

// SchedulerProvider provides task scheduling capability
type SchedulerProvider interface {
	Scheduler() *cron.Cron
}

// BusProvider provides the application event bus
type BusProvider interface {
	Bus() evbus.Bus
}

// ShopProvider provides the shop service instances the presentation
// layer is allowed to call. Handlers never touch the database directly.
type ShopProvider interface {
	Identity() *identity.Service
	Catalog() *catalog.Service
	Repairs() *repairs.Service
	Customers() *customers.Service
	Lookup() *lookup.Service
}

// AppContext combines all provider interfaces for full application context
type AppContext interface {
	DBProvider
	ConfigProvider
	SettingsProvider
	SchedulerProvider
	BusProvider
	ShopProvider

	// Application lifecycle methods
	MigrateDB() error
	DropAll()
	Release()
}
