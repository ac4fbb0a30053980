package task

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/blues/dgs/internal/config"
	"github.com/blues/dgs/internal/logger"
	"github.com/blues/dgs/internal/logic"
	"github.com/blues/dgs/internal/model"
	"github.com/go-co-op/gocron/v2"
	"github.com/panjf2000/ants/v2"
)

// DonationStatusJob 捐赠状态刷新任务
// 周期性把 pending 捐赠按链上回执推进到 confirmed/failed
type DonationStatusJob struct {
	txStatusLogic *logic.TxStatusLogic
	config        *config.Config
}

// NewDonationStatusJob 创建捐赠状态刷新任务
func NewDonationStatusJob(txStatusLogic *logic.TxStatusLogic, cfg *config.Config) *DonationStatusJob {
	return &DonationStatusJob{
		txStatusLogic: txStatusLogic,
		config:        cfg,
	}
}

// GetName 获取任务名称
func (j *DonationStatusJob) GetName() string {
	return "donation_status_updater"
}

// GetSchedule 获取调度配置
func (j *DonationStatusJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(time.Duration(j.config.Task.Interval) * time.Second)
}

// Execute 执行任务
func (j *DonationStatusJob) Execute() {
	pending, err := j.txStatusLogic.PendingDonations()
	if err != nil {
		logger.Error("Failed to fetch pending donations: %v", err)
		return
	}
	if len(pending) == 0 {
		return
	}

	logger.Info("Refreshing %d pending donations", len(pending))

	poolSize := j.config.Task.PoolSize
	if poolSize <= 0 {
		poolSize = 8
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		logger.Error("Failed to create worker pool: %v", err)
		return
	}
	defer pool.Release()

	maxAge := j.config.Chain.PendingMaxAge()
	var updated int64
	var wg sync.WaitGroup

	for i := range pending {
		donation := &pending[i]
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			changed, err := j.txStatusLogic.RefreshDonation(context.Background(), donation, maxAge)
			if err != nil {
				logger.Warn("Failed to refresh donation %d (tx=%s): %v", donation.Id, donation.TxHash, err)
				return
			}
			if changed {
				atomic.AddInt64(&updated, 1)
				if donation.Status == model.DonationStatusFailed {
					logger.Warn("Donation %d marked failed (tx=%s)", donation.Id, donation.TxHash)
				}
			}
		})
		if submitErr != nil {
			wg.Done()
			logger.Error("Failed to submit refresh task: %v", submitErr)
		}
	}

	wg.Wait()
	logger.Info("Donation status refresh completed, %d updated", atomic.LoadInt64(&updated))
}
