package main

import (
	"fmt"
	"math/rand"
	"time"

	emitter "github.com/darkit/emitx"
)

// 事件类别
const (
	EventReading   = "reading"   // 新的传感器读数
	EventThreshold = "threshold" // 读数越过阈值
)

// Reading 传感器读数
type Reading struct {
	DeviceID    string    `json:"device_id"`
	Temperature float64   `json:"temperature"`
	Timestamp   time.Time `json:"timestamp"`
}

// SensorHub 演示拥有Emitter的父对象模式：
// Hub内部持有*Emitter并独占发布能力，外部代码只能通过Events()订阅。
type SensorHub struct {
	events    *emitter.Emitter[string, Reading]
	threshold float64
}

func NewSensorHub(threshold float64) *SensorHub {
	return &SensorHub{
		events:    emitter.New[string, Reading](),
		threshold: threshold,
	}
}

// Events 对外只暴露订阅能力
func (h *SensorHub) Events() emitter.Subscriber[string, Reading] {
	return h.events.Subscriber()
}

// Record 录入一条读数并发出相应事件
func (h *SensorHub) Record(r Reading) {
	h.events.Emit(EventReading, &r)
	if r.Temperature > h.threshold {
		h.events.Emit(EventThreshold, &r)
	}
}

func main() {
	hub := NewSensorHub(30.0)

	// 普通监听器：记录每条读数
	readingID, err := hub.Events().On(EventReading, func(_ string, r *Reading) {
		fmt.Printf("[reading] %s: %.1f°C\n", r.DeviceID, r.Temperature)
	})
	if err != nil {
		panic(err)
	}

	// 阈值监听器
	if _, err := hub.Events().On(EventThreshold, func(_ string, r *Reading) {
		fmt.Printf("[alert]   %s exceeded threshold: %.1f°C\n", r.DeviceID, r.Temperature)
	}); err != nil {
		panic(err)
	}

	// 一次性监听器：只报告第一条读数
	if _, err := hub.Events().Once(EventReading, func(_ string, r *Reading) {
		fmt.Printf("[first]   first reading came from %s\n", r.DeviceID)
	}); err != nil {
		panic(err)
	}

	for i := 0; i < 5; i++ {
		hub.Record(Reading{
			DeviceID:    fmt.Sprintf("sensor-%d", i%2),
			Temperature: 20 + rand.Float64()*15,
			Timestamp:   time.Now(),
		})
	}

	// 取消订阅后不再收到读数事件
	hub.Events().Off(readingID)
	hub.Record(Reading{DeviceID: "sensor-0", Temperature: 35, Timestamp: time.Now()})

	fmt.Printf("metrics: %v\n", hub.events.GetMetrics())
}
