package app

import (
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/tiprecycle/shopd/internal/domain"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

func (a *Application) initJob() {
	loc, _ := time.LoadLocation(a.appConfig.System.Location)
	a.sched = cron.New(cron.WithLocation(loc), cron.WithParser(cronParser))

	var err error
	_, err = a.sched.AddFunc("@hourly", a.SchedPendingRepairSummary)
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	_, err = a.sched.AddFunc("@daily", a.SchedPurgeSaleHistory)
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	a.sched.Start()
}

// SchedPendingRepairSummary logs a headcount of pending tickets so a
// quiet shop notices the backlog without opening the dashboard.
func (a *Application) SchedPendingRepairSummary() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	if !a.settings.GetBool("repairs", "summary_enabled") {
		return
	}

	var pending int64
	if err := a.gormDB.Model(&domain.ShopRepair{}).
		Where("status = ?", domain.StatusPending).
		Count(&pending).Error; err != nil {
		zap.L().Error("pending repair summary failed", zap.Error(err))
		return
	}

	zap.L().Info("pending repair summary", zap.Int64("pending", pending))
}

// SchedPurgeSaleHistory trims the sale history to the configured
// retention window.
func (a *Application) SchedPurgeSaleHistory() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	idays := a.settings.GetInt64("sales", "history_days")
	if idays == 0 {
		idays = 365
	}

	a.gormDB.
		Where("created_at < ?", time.Now().
			Add(-time.Hour*24*time.Duration(idays))).Delete(&domain.ShopSale{})
}
