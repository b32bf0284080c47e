package emitx

import (
	"sync/atomic"
	"time"
)

// Metrics 指标收集器
//
// 所有计数器均使用原子操作，记录路径上不引入额外的锁。
type Metrics struct {
	Subscribes      uint64 // 累计订阅次数
	Unsubscribes    uint64 // 累计取消订阅次数
	Emits           uint64 // 累计事件发出次数
	Deliveries      uint64 // 累计正常完成的回调投递次数
	ActiveListeners int64  // 当前活跃监听器数
	LastEmitTime    int64  // 最后一次发出事件的时间(Unix纳秒时间戳，原子操作安全)
}

// newMetrics 创建新的指标收集器
func newMetrics() *Metrics {
	return &Metrics{}
}

// recordSubscribe 记录订阅指标
func (m *Metrics) recordSubscribe() {
	atomic.AddUint64(&m.Subscribes, 1)
	atomic.AddInt64(&m.ActiveListeners, 1)
}

// recordUnsubscribe 记录取消订阅指标
func (m *Metrics) recordUnsubscribe() {
	atomic.AddUint64(&m.Unsubscribes, 1)
	atomic.AddInt64(&m.ActiveListeners, -1)
}

// recordEmit 记录事件发出指标
func (m *Metrics) recordEmit() {
	atomic.AddUint64(&m.Emits, 1)
	atomic.StoreInt64(&m.LastEmitTime, time.Now().UnixNano())
}

// recordDelivery 记录一次正常完成的回调投递
func (m *Metrics) recordDelivery() {
	atomic.AddUint64(&m.Deliveries, 1)
}

// getSnapshot 获取指标快照，返回格式化的指标信息
func (m *Metrics) getSnapshot() map[string]interface{} {
	snapshot := map[string]interface{}{
		"subscribes":       atomic.LoadUint64(&m.Subscribes),
		"unsubscribes":     atomic.LoadUint64(&m.Unsubscribes),
		"emits":            atomic.LoadUint64(&m.Emits),
		"deliveries":       atomic.LoadUint64(&m.Deliveries),
		"active_listeners": atomic.LoadInt64(&m.ActiveListeners),
	}

	if last := atomic.LoadInt64(&m.LastEmitTime); last > 0 {
		snapshot["last_emit"] = time.Unix(0, last).Format(time.RFC3339)
	}

	return snapshot
}
