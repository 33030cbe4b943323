package utils

import (
	"reflect"
	"sync/atomic"
	"testing"
	"time"
)

func TestParallelMap(t *testing.T) {
	// 测试空输入
	t.Run("empty input", func(t *testing.T) {
		var emptyInput []int
		result := ParallelMap(emptyInput, 4, func(i int) int {
			return i * 2
		})
		if len(result) != 0 {
			t.Errorf("expected empty result, got %v", result)
		}
	})

	// 测试单元素输入 - 应该直接处理，不使用并发
	t.Run("single input", func(t *testing.T) {
		input := []int{42}
		result := ParallelMap(input, 4, func(i int) int {
			return i * 2
		})
		if len(result) != 1 || result[0] != 84 {
			t.Errorf("expected [84], got %v", result)
		}
	})

	// 测试并发度 <= 1 时退化为串行
	t.Run("serial when concurrency is one", func(t *testing.T) {
		input := []int{1, 2, 3}
		result := ParallelMap(input, 1, func(i int) int {
			return i + 1
		})
		if !reflect.DeepEqual(result, []int{2, 3, 4}) {
			t.Errorf("expected [2 3 4], got %v", result)
		}
	})

	// 测试多元素输入 - 确保顺序正确
	t.Run("multiple inputs with order", func(t *testing.T) {
		input := make([]int, 64)
		expected := make([]int, 64)
		for i := range input {
			input[i] = i
			expected[i] = i * 2
		}

		result := ParallelMap(input, 8, func(i int) int {
			// 倒序延迟，靠后的任务先完成，检验顺序保持
			time.Sleep(time.Duration(64-i) * 100 * time.Microsecond)
			return i * 2
		})

		if !reflect.DeepEqual(result, expected) {
			t.Errorf("expected %v, got %v", expected, result)
		}
	})

	// 测试并发执行 - 并发数不超过上限
	t.Run("concurrency bounded", func(t *testing.T) {
		input := make([]int, 100)
		for i := range input {
			input[i] = i
		}

		var maxConcurrent int32
		var currentConcurrent int32

		ParallelMap(input, 10, func(i int) int {
			current := atomic.AddInt32(&currentConcurrent, 1)
			for {
				max := atomic.LoadInt32(&maxConcurrent)
				if current <= max {
					break
				}
				if atomic.CompareAndSwapInt32(&maxConcurrent, max, current) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt32(&currentConcurrent, -1)
			return i * 2
		})

		if maxConcurrent > 10 {
			t.Errorf("expected max concurrent <= 10, got %d", maxConcurrent)
		}
	})
}
