package emitx

import (
	"fmt"
	"testing"
)

// BenchmarkOn 测试注册监听器性能
func BenchmarkOn(b *testing.B) {
	e := New[string, int]()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := e.On("bench", func(string, *int) {}); err != nil {
			b.Fatalf("On() failed: %v", err)
		}
	}
}

// BenchmarkOnOff 测试订阅加全表扫描取消的往返性能
func BenchmarkOnOff(b *testing.B) {
	e := New[string, int]()

	// 预置一批监听器，让Off的全表扫描有实际工作量
	for i := 0; i < 1000; i++ {
		category := fmt.Sprintf("bench-%d", i%10)
		if _, err := e.On(category, func(string, *int) {}); err != nil {
			b.Fatalf("On() failed: %v", err)
		}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		id, err := e.On("bench-0", func(string, *int) {})
		if err != nil {
			b.Fatalf("On() failed: %v", err)
		}
		e.Off(id)
	}
}

// BenchmarkEmit 测试不同监听器数量下的分发性能
func BenchmarkEmit(b *testing.B) {
	for _, count := range []int{1, 10, 100} {
		b.Run(fmt.Sprintf("listeners-%d", count), func(b *testing.B) {
			e := New[string, int]()
			for i := 0; i < count; i++ {
				if _, err := e.On("bench", func(string, *int) {}); err != nil {
					b.Fatalf("On() failed: %v", err)
				}
			}

			payload := 1
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				e.Emit("bench", &payload)
			}
		})
	}
}

// BenchmarkEmitParallel 测试多goroutine并发分发到不同类别的性能
func BenchmarkEmitParallel(b *testing.B) {
	e := New[string, int]()
	for i := 0; i < 8; i++ {
		category := fmt.Sprintf("bench-%d", i)
		for j := 0; j < 10; j++ {
			if _, err := e.On(category, func(string, *int) {}); err != nil {
				b.Fatalf("On() failed: %v", err)
			}
		}
	}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		payload := 1
		for pb.Next() {
			e.Emit(fmt.Sprintf("bench-%d", i%8), &payload)
			i++
		}
	})
}
