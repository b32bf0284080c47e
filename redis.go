package emitx

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisSubscriber Redis订阅客户端接口
// 这是一个接口，允许使用不同的Redis客户端实现
type RedisSubscriber interface {
	Subscribe(ctx context.Context, channels ...string) RedisPubSub
}

// RedisPubSub 单个Redis订阅的接口，*redis.PubSub直接满足该接口
type RedisPubSub interface {
	Channel(opts ...redis.ChannelOption) <-chan *redis.Message
	Close() error
}

// GoRedisSubscriber 是go-redis库的适配器，实现RedisSubscriber接口
type GoRedisSubscriber struct {
	client *redis.Client
}

// GoRedisOptions Redis连接选项
type GoRedisOptions struct {
	Addr     string
	Password string
	DB       int
	Username string
	// 超时设置
	DialTimeout time.Duration
	ReadTimeout time.Duration
}

// DefaultGoRedisOptions 返回默认的Redis选项
func DefaultGoRedisOptions() *GoRedisOptions {
	return &GoRedisOptions{
		Addr:        "localhost:6379",
		DB:          0,
		DialTimeout: 5 * time.Second,
		ReadTimeout: 3 * time.Second,
	}
}

// NewGoRedisSubscriber 创建一个新的Go Redis订阅客户端
func NewGoRedisSubscriber(opts *GoRedisOptions) *GoRedisSubscriber {
	if opts == nil {
		opts = DefaultGoRedisOptions()
	}

	client := redis.NewClient(&redis.Options{
		Addr:        opts.Addr,
		Password:    opts.Password,
		Username:    opts.Username,
		DB:          opts.DB,
		DialTimeout: opts.DialTimeout,
		ReadTimeout: opts.ReadTimeout,
	})

	return &GoRedisSubscriber{client: client}
}

// Subscribe 订阅指定频道
func (s *GoRedisSubscriber) Subscribe(ctx context.Context, channels ...string) RedisPubSub {
	return s.client.Subscribe(ctx, channels...)
}

// Close 关闭底层客户端
func (s *GoRedisSubscriber) Close() error {
	return s.client.Close()
}

// RedisSource Redis订阅源
//
// 与Bridge同样是拥有Emitter的父对象：订阅Redis pub/sub频道，把收到的
// 每条消息注入私有的Emitter（事件类别即频道名）。不存储任何历史消息。
type RedisSource struct {
	config      RedisSourceConfig         // 订阅源配置
	client      RedisSubscriber           // Redis订阅客户端
	emitter     *Emitter[string, Message] // 私有事件分发器
	logger      Logger                    // 日志记录器
	pubsub      RedisPubSub               // 活跃的订阅
	done        chan struct{}             // 接收循环退出信号
	running     bool                      // 是否运行中
	msgReceived uint64                    // 接收的消息数
	mu          sync.Mutex                // 保护running和pubsub
}

// NewRedisSource 创建新的Redis订阅源
func NewRedisSource(config RedisSourceConfig, client RedisSubscriber) (*RedisSource, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &RedisSource{
		config:  config,
		client:  client,
		emitter: New[string, Message](),
		logger:  NewDefaultLogger(),
	}, nil
}

// SetLogger 设置日志记录器
func (s *RedisSource) SetLogger(logger Logger) {
	if logger == nil {
		logger = NewDefaultLogger()
	}
	s.mu.Lock()
	s.logger = logger
	s.mu.Unlock()
}

// Events 返回本地事件的订阅能力视图
func (s *RedisSource) Events() Subscriber[string, Message] {
	return s.emitter.Subscriber()
}

// Start 订阅配置的频道并启动接收循环
func (s *RedisSource) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return ErrAlreadyRunning
	}

	s.pubsub = s.client.Subscribe(ctx, s.config.Channels...)
	s.done = make(chan struct{})
	s.running = true

	// 通道作为参数传入，使每一代接收循环只持有自己这一代的done，
	// 不与后续Start写入的字段发生竞争
	go s.receive(s.pubsub.Channel(), s.done)

	s.logger.Info("redis source started",
		"source", s.config.Name,
		"channels", len(s.config.Channels))
	return nil
}

// Stop 关闭订阅并等待接收循环退出
func (s *RedisSource) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	pubsub := s.pubsub
	done := s.done
	s.mu.Unlock()

	// 关闭订阅使Channel()返回的通道被关闭，接收循环随之退出
	if err := pubsub.Close(); err != nil {
		s.logger.Warn("redis source close failed",
			"source", s.config.Name,
			"error", err)
	}
	<-done

	s.logger.Info("redis source stopped", "source", s.config.Name)
}

// IsRunning 检查订阅源是否运行中
func (s *RedisSource) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// receive 接收循环，把Redis消息注入本地分发器
func (s *RedisSource) receive(ch <-chan *redis.Message, done chan struct{}) {
	defer close(done)

	for msg := range ch {
		atomic.AddUint64(&s.msgReceived, 1)

		m := Message{
			Source:    SourceRedis,
			Topic:     msg.Channel,
			Payload:   []byte(msg.Payload),
			Timestamp: time.Now(),
		}
		s.emitter.Emit(msg.Channel, &m)
	}
}

// GetMetrics 获取订阅源指标
func (s *RedisSource) GetMetrics() map[string]interface{} {
	metrics := s.emitter.GetMetrics()
	metrics["name"] = s.config.Name
	metrics["received"] = atomic.LoadUint64(&s.msgReceived)
	metrics["running"] = s.IsRunning()
	return metrics
}
