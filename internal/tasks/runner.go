// Package tasks 提供受監督的背景任務執行。
//
// 發言提交後的回合分析必須在回應送出後繼續跑完，
// 所以任務脫離請求的生命週期，失敗和 panic 集中記錄而不是被吞掉。
package tasks

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Runner 負責派發有名稱的背景任務
type Runner struct {
	logger  *zap.SugaredLogger
	timeout time.Duration
	wg      sync.WaitGroup
}

// NewRunner 創建任務執行器，timeout 是單一任務的最長執行時間
func NewRunner(logger *zap.SugaredLogger, timeout time.Duration) *Runner {
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &Runner{logger: logger, timeout: timeout}
}

// Go 派發一個任務後立即返回，任務一旦排入就不會被取消
func (r *Runner) Go(name string, fn func(ctx context.Context) error) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer func() {
			if rec := recover(); rec != nil {
				r.logger.Errorw("background task panicked", "task", name, "panic", rec)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()

		if err := fn(ctx); err != nil {
			r.logger.Errorw("background task failed", "task", name, "error", err)
		}
	}()
}

// Wait 等待所有已派發的任務結束，關機和測試時使用
func (r *Runner) Wait() {
	r.wg.Wait()
}
