package emitx

import (
	"sync"
	"sync/atomic"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// Bridge MQTT网桥
//
// Bridge是拥有Emitter的"父对象"的一个内置实现：它订阅MQTT主题，
// 并把收到的每条消息经由私有的Emitter同步分发给本地监听器（事件类别
// 即MQTT主题）。发布能力只属于Bridge自身，外部代码通过Events()拿到的
// 订阅视图只能注册/注销监听器。
type Bridge struct {
	config      BridgeConfig              // 网桥配置
	client      mqtt.Client               // MQTT客户端实例
	emitter     *Emitter[string, Message] // 私有事件分发器
	logger      Logger                    // 日志记录器
	running     bool                      // 是否运行中
	msgReceived uint64                    // 接收的消息数
	msgSent     uint64                    // 发送的消息数
	mu          sync.Mutex                // 保护running和client
}

// NewBridge 创建新的MQTT网桥
func NewBridge(config BridgeConfig) (*Bridge, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.ConnectTimeout <= 0 {
		config.ConnectTimeout = DefaultConnectTimeout
	}

	opts := mqtt.NewClientOptions()
	for _, broker := range config.Brokers {
		opts.AddBroker(broker)
	}
	opts.SetClientID(config.ClientID)
	if config.Username != "" {
		opts.SetUsername(config.Username)
		opts.SetPassword(config.Password)
	}
	opts.SetKeepAlive(DefaultKeepAlive)
	opts.SetConnectTimeout(config.ConnectTimeout)
	opts.SetAutoReconnect(true)

	return newBridgeWithClient(config, mqtt.NewClient(opts)), nil
}

// newBridgeWithClient 使用外部提供的客户端创建网桥，测试时注入模拟客户端
func newBridgeWithClient(config BridgeConfig, client mqtt.Client) *Bridge {
	if config.ConnectTimeout <= 0 {
		config.ConnectTimeout = DefaultConnectTimeout
	}
	return &Bridge{
		config:  config,
		client:  client,
		emitter: New[string, Message](),
		logger:  NewDefaultLogger(),
	}
}

// SetLogger 设置日志记录器
func (b *Bridge) SetLogger(logger Logger) {
	if logger == nil {
		logger = NewDefaultLogger()
	}
	b.mu.Lock()
	b.logger = logger
	b.mu.Unlock()
}

// Events 返回本地事件的订阅能力视图
func (b *Bridge) Events() Subscriber[string, Message] {
	return b.emitter.Subscriber()
}

// Start 连接broker并订阅配置的主题
func (b *Bridge) Start() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.running {
		return ErrAlreadyRunning
	}

	if token := b.client.Connect(); !token.WaitTimeout(b.config.ConnectTimeout) {
		return wrapError(ErrTimeout, "bridge %q: connect to broker", b.config.Name)
	} else if token.Error() != nil {
		return wrapError(token.Error(), "bridge %q: connect to broker", b.config.Name)
	}

	for _, topic := range b.config.Topics {
		token := b.client.Subscribe(topic, b.config.QoS, b.handleMessage)
		if token.Wait() && token.Error() != nil {
			b.client.Disconnect(uint(DefaultDisconnectGrace.Milliseconds()))
			return wrapError(token.Error(), "bridge %q: subscribe topic %s", b.config.Name, topic)
		}
	}

	b.running = true
	b.logger.Info("bridge started",
		"bridge", b.config.Name,
		"topics", len(b.config.Topics))
	return nil
}

// Stop 取消主题订阅并断开连接
func (b *Bridge) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.running {
		return
	}
	b.running = false

	if token := b.client.Unsubscribe(b.config.Topics...); token.Wait() && token.Error() != nil {
		b.logger.Warn("bridge unsubscribe failed",
			"bridge", b.config.Name,
			"error", token.Error())
	}
	b.client.Disconnect(uint(DefaultDisconnectGrace.Milliseconds()))

	b.logger.Info("bridge stopped", "bridge", b.config.Name)
}

// IsRunning 检查网桥是否运行中
func (b *Bridge) IsRunning() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.running
}

// Publish 从本地向broker发布消息（出方向，不经过本地分发器）
func (b *Bridge) Publish(topic string, payload []byte) error {
	if !b.client.IsConnected() {
		return wrapError(ErrNotConnected, "bridge %q: publish topic %s", b.config.Name, topic)
	}

	token := b.client.Publish(topic, b.config.QoS, false, payload)
	if token.Wait() && token.Error() != nil {
		return wrapError(token.Error(), "bridge %q: publish topic %s", b.config.Name, topic)
	}

	atomic.AddUint64(&b.msgSent, 1)
	return nil
}

// handleMessage 处理broker推送的消息，在paho的回调goroutine上同步分发
func (b *Bridge) handleMessage(_ mqtt.Client, msg mqtt.Message) {
	atomic.AddUint64(&b.msgReceived, 1)

	m := Message{
		Source:    SourceMQTT,
		Topic:     msg.Topic(),
		Payload:   msg.Payload(),
		Timestamp: time.Now(),
	}
	b.emitter.Emit(msg.Topic(), &m)
}

// GetMetrics 获取网桥指标
func (b *Bridge) GetMetrics() map[string]interface{} {
	metrics := b.emitter.GetMetrics()
	metrics["name"] = b.config.Name
	metrics["received"] = atomic.LoadUint64(&b.msgReceived)
	metrics["sent"] = atomic.LoadUint64(&b.msgSent)
	metrics["running"] = b.IsRunning()
	return metrics
}
