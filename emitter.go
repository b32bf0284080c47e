package emitx

import (
	"sync"
)

// ListenerID 监听器的唯一标识，由订阅操作返回，用于取消订阅。
// ID从1开始单调递增且永不复用，因此零值永远不会对应一个有效的监听器。
type ListenerID uint64

// Callback 事件回调函数类型，接收事件类别和事件负载的只读引用。
// 回调不得通过该引用修改事件负载。
type Callback[K comparable, E any] func(category K, event *E)

// Subscriber 订阅能力视图，提供给外部调用方使用。
// 拥有Emitter的对象应只向外暴露该视图，保留发布能力给自己。
type Subscriber[K comparable, E any] interface {
	On(category K, callback Callback[K, E]) (ListenerID, error)
	Once(category K, callback Callback[K, E]) (ListenerID, error)
	Off(id ListenerID)
}

// Publisher 发布能力视图，仅供拥有/嵌入Emitter的对象内部持有。
type Publisher[K comparable, E any] interface {
	Emit(category K, event *E)
}

// listener 单个监听器记录，由Emitter独占持有
type listener[K comparable, E any] struct {
	id ListenerID // 监听器ID
	fn Callback[K, E]
}

// Emitter 通用的线程安全事件分发器。
//
// K为事件类别类型（需可比较且可廉价复制），E为事件负载类型。
// 所有操作都在调用方的goroutine上同步执行，Emitter内部不启动任何goroutine。
// 监听器映射和ID计数器由单个互斥锁保护，锁的持有范围尽可能窄，
// 尤其不会在调用回调期间持有（见Emit）。
type Emitter[K comparable, E any] struct {
	mu        sync.Mutex
	listeners map[K][]listener[K, E] // 监听器映射表，按事件类别索引，保持注册顺序
	lastID    ListenerID             // 最后发放的监听器ID，单调递增
	metrics   *Metrics               // 指标收集器
}

// 确保Emitter同时实现两个能力视图
var (
	_ Subscriber[string, any] = (*Emitter[string, any])(nil)
	_ Publisher[string, any]  = (*Emitter[string, any])(nil)
)

// New 创建新的空事件分发器
func New[K comparable, E any]() *Emitter[K, E] {
	return &Emitter[K, E]{
		listeners: make(map[K][]listener[K, E]),
		metrics:   newMetrics(),
	}
}

// Subscriber 返回该Emitter的订阅能力视图。
// 拥有者向外部代码交出该视图，外部代码便只能观察事件而不能产生事件。
func (e *Emitter[K, E]) Subscriber() Subscriber[K, E] {
	return e
}

// On 为指定事件类别注册监听器。
//
// callback会在该类别的每次事件发出时被调用，参数为事件类别和负载引用。
// 返回的ListenerID用于Off取消订阅。callback为nil时返回ErrNilCallback，
// 且不产生任何状态变更。
func (e *Emitter[K, E]) On(category K, callback Callback[K, E]) (ListenerID, error) {
	if callback == nil {
		return 0, ErrNilCallback
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.lastID++
	id := e.lastID
	e.listeners[category] = append(e.listeners[category], listener[K, E]{id: id, fn: callback})
	e.metrics.recordSubscribe()

	return id, nil
}

// Once 注册一次性监听器，首次被调用后自动取消订阅。
//
// 即使多个Emit并发地各自捕获了该监听器的快照，callback也最多执行一次。
func (e *Emitter[K, E]) Once(category K, callback Callback[K, E]) (ListenerID, error) {
	if callback == nil {
		return 0, ErrNilCallback
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.lastID++
	id := e.lastID

	// id必须在包装函数构造前确定，否则并发的Emit可能在ID可见前触发回调
	var once sync.Once
	wrapped := func(category K, event *E) {
		once.Do(func() {
			e.Off(id)
			callback(category, event)
		})
	}

	e.listeners[category] = append(e.listeners[category], listener[K, E]{id: id, fn: wrapped})
	e.metrics.recordSubscribe()

	return id, nil
}

// Off 取消订阅指定ID的监听器。
//
// 扫描所有类别并移除匹配的监听器记录。ID不存在时（已移除、从未发放
// 或调用方使用零值）静默返回，重复取消订阅是无害的幂等操作。
func (e *Emitter[K, E]) Off(id ListenerID) {
	e.mu.Lock()
	defer e.mu.Unlock()

	// 没有从ID到类别的反向索引，总是全表扫描
	for category, regs := range e.listeners {
		for i := range regs {
			if regs[i].id == id {
				e.listeners[category] = append(regs[:i:i], regs[i+1:]...)
				if len(e.listeners[category]) == 0 {
					delete(e.listeners, category)
				}
				e.metrics.recordUnsubscribe()
				return
			}
		}
	}
}

// Emit 将事件同步分发给指定类别的所有监听器。
//
// 在锁内复制该类别当前的监听器快照，解锁后按注册顺序依次调用回调。
// 回调执行期间不持有锁，因此回调可以安全地在同一Emitter上调用
// On/Once/Off（包括取消自身）。快照语义：分发开始后发生的移除不影响
// 本次分发，分发开始后注册的监听器不会收到本次事件。
//
// 回调中的panic会原样传播给Emit的调用方，且中断同一轮中后续监听器的
// 调用。Emitter不做任何隔离、日志或重试。
func (e *Emitter[K, E]) Emit(category K, event *E) {
	e.mu.Lock()
	regs := e.listeners[category]
	if len(regs) == 0 {
		e.metrics.recordEmit()
		e.mu.Unlock()
		return
	}
	snapshot := make([]listener[K, E], len(regs))
	copy(snapshot, regs)
	e.metrics.recordEmit()
	e.mu.Unlock()

	for i := range snapshot {
		snapshot[i].fn(category, event)
		e.metrics.recordDelivery()
	}
}

// Len 返回当前注册的监听器总数
func (e *Emitter[K, E]) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	total := 0
	for _, regs := range e.listeners {
		total += len(regs)
	}
	return total
}

// LenCategory 返回指定类别当前注册的监听器数量
func (e *Emitter[K, E]) LenCategory(category K) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.listeners[category])
}

// GetMetrics 获取指标信息
func (e *Emitter[K, E]) GetMetrics() map[string]interface{} {
	return e.metrics.getSnapshot()
}
