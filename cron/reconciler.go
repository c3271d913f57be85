package cron

import (
	"context"
	"time"

	"arcadehub/config"
	"arcadehub/services/schedule"
	"arcadehub/utils"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// StartScheduleReconciler runs periodic derivation over the upcoming dates
// to correct drift between reservations and derived schedule events. The
// job is a safety net; correctness does not depend on it.
func StartScheduleReconciler(deriver schedule.Deriver) *cron.Cron {
	logger := utils.GetLogger()

	c := cron.New()
	spec := config.AppConfig.ReconcileCron
	days := config.AppConfig.ReconcileDays
	if days <= 0 {
		days = 7
	}

	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		today := time.Now()
		for i := 0; i < days; i++ {
			date := today.AddDate(0, 0, i).Format("2006-01-02")
			if err := deriver.ReconcileDate(ctx, date); err != nil {
				logger.Warn("schedule reconciliation failed",
					zap.String("date", date),
					zap.Error(err))
			}
		}
		logger.Info("schedule reconciliation finished", zap.Int("days", days))
	})
	if err != nil {
		logger.Error("invalid reconcile cron spec", zap.String("spec", spec), zap.Error(err))
		return c
	}

	c.Start()
	logger.Info("schedule reconciler started", zap.String("spec", spec))
	return c
}
