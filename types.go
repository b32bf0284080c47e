package emitx

import (
	"time"
)

// 默认连接配置常量
const (
	DefaultConnectTimeout  = 30 * time.Second       // 默认连接超时时间
	DefaultDisconnectGrace = 250 * time.Millisecond // 默认断开连接等待时间
	DefaultKeepAlive       = 60 * time.Second       // 默认保活时间
)

// 消息来源常量
const (
	SourceMQTT  = "mqtt"  // 来自MQTT网桥
	SourceRedis = "redis" // 来自Redis订阅源
)

// Message 外围组件注入事件分发器的统一消息结构
type Message struct {
	Source    string    `json:"source"`    // 消息来源(mqtt/redis)
	Topic     string    `json:"topic"`     // 主题或频道名称
	Payload   []byte    `json:"payload"`   // 消息内容
	Timestamp time.Time `json:"timestamp"` // 消息接收时间
}

// BridgeConfig MQTT网桥配置
type BridgeConfig struct {
	Name           string        // 网桥名称
	Brokers        []string      // MQTT broker地址列表
	ClientID       string        // 客户端ID
	Username       string        // 用户名
	Password       string        // 密码
	Topics         []string      // 订阅的主题列表
	QoS            byte          // 服务质量等级
	ConnectTimeout time.Duration // 连接超时时间
}

// Validate 验证网桥配置
func (c *BridgeConfig) Validate() error {
	errs := NewValidationErrors()

	if len(c.Brokers) == 0 {
		errs.Add(wrapError(ErrInvalidBroker, "bridge %q: brokers must not be empty", c.Name))
	}
	if c.ClientID == "" {
		errs.Add(wrapError(ErrInvalidConfig, "bridge %q: client ID must not be empty", c.Name))
	}
	if len(c.Topics) == 0 {
		errs.Add(wrapError(ErrInvalidTopic, "bridge %q: topics must not be empty", c.Name))
	}
	for _, topic := range c.Topics {
		if topic == "" {
			errs.Add(wrapError(ErrInvalidTopic, "bridge %q: empty topic", c.Name))
		}
	}
	if c.QoS > 2 {
		errs.Add(wrapError(ErrInvalidConfig, "bridge %q: QoS must be 0, 1 or 2", c.Name))
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}

// RedisSourceConfig Redis订阅源配置
type RedisSourceConfig struct {
	Name     string   // 订阅源名称
	Channels []string // 订阅的频道列表
}

// Validate 验证订阅源配置
func (c *RedisSourceConfig) Validate() error {
	errs := NewValidationErrors()

	if len(c.Channels) == 0 {
		errs.Add(wrapError(ErrInvalidChannel, "source %q: channels must not be empty", c.Name))
	}
	for _, channel := range c.Channels {
		if channel == "" {
			errs.Add(wrapError(ErrInvalidChannel, "source %q: empty channel", c.Name))
		}
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}
