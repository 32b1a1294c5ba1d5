package worker

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-venue-booking/internal/domain/event"
	"github.com/sanosuguru/go-venue-booking/internal/pkg/logger"
)

// ActiveEventsLister は開催前の予約を返す
type ActiveEventsLister interface {
	ListActiveEvents(ctx context.Context) ([]*event.Event, error)
}

// ActiveEventsReporter は開催前の予約数を定期的にゲージへ反映するワーカー
type ActiveEventsReporter struct {
	events   ActiveEventsLister
	gauge    prometheus.Gauge
	interval time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
	stopOnce sync.Once
}

// DefaultReportInterval は間隔が 0 以下のときに使う集計間隔
const DefaultReportInterval = time.Minute

// NewActiveEventsReporter は新しいレポーターを作成
func NewActiveEventsReporter(events ActiveEventsLister, gauge prometheus.Gauge, interval time.Duration) *ActiveEventsReporter {
	if interval <= 0 {
		interval = DefaultReportInterval
	}
	return &ActiveEventsReporter{
		events:   events,
		gauge:    gauge,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start はレポーターを開始する。起動直後に一度集計してから定期実行する
func (r *ActiveEventsReporter) Start(ctx context.Context) {
	logger.Info("開催前予約レポーター開始", zap.Duration("interval", r.interval))

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	defer close(r.doneCh)

	r.report(ctx)

	for {
		select {
		case <-ctx.Done():
			logger.Info("開催前予約レポーター停止（コンテキストキャンセル）")
			return
		case <-r.stopCh:
			logger.Info("開催前予約レポーター停止（シグナル受信）")
			return
		case <-ticker.C:
			r.report(ctx)
		}
	}
}

// Stop はレポーターを停止し、ループの終了を待つ
func (r *ActiveEventsReporter) Stop() {
	r.stopOnce.Do(func() { close(r.stopCh) })
	<-r.doneCh
}

// report は開催前の予約数を数えてゲージを更新する。失敗時は前回の値を残す
func (r *ActiveEventsReporter) report(ctx context.Context) {
	events, err := r.events.ListActiveEvents(ctx)
	if err != nil {
		logger.Error("開催前予約の集計に失敗", zap.Error(err))
		return
	}

	r.gauge.Set(float64(len(events)))
	logger.Debug("開催前予約数を更新", zap.Int("count", len(events)))
}
