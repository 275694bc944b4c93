package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
	_ "time/tzdata"

	evbus "github.com/asaskevich/EventBus"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/tiprecycle/shopd/config"
	"github.com/tiprecycle/shopd/internal/shop/barcode"
	"github.com/tiprecycle/shopd/internal/shop/catalog"
	"github.com/tiprecycle/shopd/internal/shop/customers"
	"github.com/tiprecycle/shopd/internal/shop/events"
	"github.com/tiprecycle/shopd/internal/shop/identity"
	"github.com/tiprecycle/shopd/internal/shop/lookup"
	"github.com/tiprecycle/shopd/internal/shop/repairs"
)

type Application struct {
	appConfig *config.AppConfig
	gormDB    *gorm.DB
	sched     *cron.Cron
	settings  *SettingsManager
	bus       evbus.Bus

	identitySvc  *identity.Service
	catalogSvc   *catalog.Service
	repairsSvc   *repairs.Service
	customersSvc *customers.Service
	lookupSvc    *lookup.Service
}

// Ensure Application implements all interfaces
var (
	_ DBProvider       = (*Application)(nil)
	_ ConfigProvider   = (*Application)(nil)
	_ SettingsProvider = (*Application)(nil)
	_ ShopProvider     = (*Application)(nil)
	_ AppContext       = (*Application)(nil)
)

func NewApplication(appConfig *config.AppConfig) *Application {
	return &Application{appConfig: appConfig}
}

func (a *Application) Config() *config.AppConfig {
	return a.appConfig
}

func (a *Application) DB() *gorm.DB {
	return a.gormDB
}

// OverrideDB replaces the application's database handle (used in tests).
func (a *Application) OverrideDB(db *gorm.DB) {
	a.gormDB = db
}

func (a *Application) Settings() *SettingsManager  { return a.settings }
func (a *Application) Bus() evbus.Bus              { return a.bus }
func (a *Application) Scheduler() *cron.Cron       { return a.sched }
func (a *Application) Identity() *identity.Service { return a.identitySvc }
func (a *Application) Catalog() *catalog.Service   { return a.catalogSvc }
func (a *Application) Repairs() *repairs.Service   { return a.repairsSvc }
func (a *Application) Customers() *customers.Service {
	return a.customersSvc
}
func (a *Application) Lookup() *lookup.Service { return a.lookupSvc }

// Init brings the application up: timezone, logger, database,
// migrations, seed data, settings, event bus, services and cron jobs.
// A storage failure here is fatal to the hosting process.
func (a *Application) Init(cfg *config.AppConfig) error {
	loc, err := time.LoadLocation(cfg.System.Location)
	if err != nil {
		zap.S().Error("timezone config error")
	} else {
		time.Local = loc
	}

	a.initLogger(cfg)

	a.gormDB, err = getDatabase(cfg)
	if err != nil {
		return errors.Wrap(err, "storage unavailable")
	}
	zap.S().Infof("Database connection successful, type: %s", cfg.Database.Type)

	if err := a.MigrateDB(); err != nil {
		return errors.Wrap(err, "database migration failed")
	}

	a.checkSuper()
	a.checkSettings()

	a.settings = NewSettingsManager(a.gormDB)
	a.bus = evbus.New()
	a.subscribeNotifications()

	codes := barcode.New()
	codeRepo := lookup.NewGormCodeRepository(a.gormDB)
	a.identitySvc = identity.NewService(identity.NewGormAccountRepository(a.gormDB))
	a.catalogSvc = catalog.NewService(a.gormDB,
		catalog.NewGormItemRepository(a.gormDB),
		catalog.NewGormSaleRepository(a.gormDB),
		codeRepo, codes, a.bus)
	a.repairsSvc = repairs.NewService(a.gormDB,
		repairs.NewGormTicketRepository(a.gormDB), codes, a.bus)
	a.customersSvc = customers.NewService(a.gormDB,
		customers.NewGormCustomerRepository(a.gormDB), a.settings, a.bus)
	a.lookupSvc = lookup.NewService(codeRepo)

	a.initJob()
	return nil
}

func (a *Application) initLogger(cfg *config.AppConfig) {
	var zapConfig zap.Config
	if cfg.Logger.Mode == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}
	zapConfig.OutputPaths = []string{"stdout"}

	var logger *zap.Logger
	if cfg.Logger.FileEnable {
		filename := cfg.Logger.Filename
		if filename == "" {
			filename = filepath.Join(cfg.GetLogDir(), "shopd.log")
		}
		lumberJackLogger := &lumberjack.Logger{
			Filename:   filename,
			MaxSize:    64,
			MaxBackups: 7,
			MaxAge:     7,
			Compress:   false,
		}

		core := zapcore.NewTee(
			zapcore.NewCore(
				zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
				zapcore.AddSync(lumberJackLogger),
				zapConfig.Level,
			),
			zapcore.NewCore(
				zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
				zapcore.AddSync(os.Stdout),
				zapConfig.Level,
			),
		)
		logger = zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
	} else {
		var err error
		logger, err = zapConfig.Build(zap.AddCaller(), zap.AddCallerSkip(1))
		if err != nil {
			panic(err)
		}
	}

	zap.ReplaceGlobals(logger)
}

// getDatabase opens the backing store. The default is a single sqlite
// file under the workdir data directory; postgres is the alternate for
// deployments that already run one.
func getDatabase(cfg *config.AppConfig) (*gorm.DB, error) {
	logLevel := gormlogger.Error
	if cfg.Database.Debug {
		logLevel = gormlogger.Info
	}
	gormCfg := &gorm.Config{Logger: gormlogger.Default.LogMode(logLevel)}

	var dialector gorm.Dialector
	switch cfg.Database.Type {
	case "postgres":
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable TimeZone=%s",
			cfg.Database.Host, cfg.Database.Port, cfg.Database.User,
			cfg.Database.Passwd, cfg.Database.Name, cfg.System.Location)
		dialector = postgres.New(postgres.Config{DSN: dsn, PreferSimpleProtocol: true})
	default:
		datadir := cfg.GetDataDir()
		if err := os.MkdirAll(datadir, 0o755); err != nil {
			return nil, err
		}
		dialector = sqlite.Open(filepath.Join(datadir, cfg.Database.Name+".db"))
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.Database.MaxConn)
	sqlDB.SetMaxIdleConns(cfg.Database.IdleConn)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

// subscribeNotifications replays the old desk notification label as
// structured log lines driven by the event bus.
func (a *Application) subscribeNotifications() {
	_ = a.bus.Subscribe(events.TopicSaleCompleted, func(item, saleCode string) {
		zap.L().Info("notice: sale completed",
			zap.String("item", item),
			zap.String("sale_barcode", saleCode))
	})
	_ = a.bus.Subscribe(events.TopicRepairCreated, func(ticketCode, customer string) {
		zap.L().Info("notice: repair request opened",
			zap.String("barcode", ticketCode),
			zap.String("customer", customer))
	})
	_ = a.bus.Subscribe(events.TopicCustomerRegistered, func(name string) {
		zap.L().Info("notice: customer registered, 100 points awarded",
			zap.String("name", name))
	})
}

// Release releases application resources.
func (a *Application) Release() {
	if a.sched != nil {
		a.sched.Stop()
	}
	if a.gormDB != nil {
		if sqlDB, err := a.gormDB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	_ = zap.L().Sync()
}
