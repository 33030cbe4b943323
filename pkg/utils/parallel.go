package utils

import "sync"

// ParallelMap 并发执行 fn 并保持输出与输入同序。
// concurrency <= 1 或单元素输入时退化为串行，不起协程。
func ParallelMap[T any, R any](items []T, concurrency int, fn func(T) R) []R {
	if len(items) == 0 {
		return nil
	}
	results := make([]R, len(items))
	if concurrency <= 1 || len(items) == 1 {
		for i, item := range items {
			results[i] = fn(item)
		}
		return results
	}
	if concurrency > len(items) {
		concurrency = len(items)
	}

	var wg sync.WaitGroup
	indexCh := make(chan int)

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexCh {
				results[i] = fn(items[i])
			}
		}()
	}
	for i := range items {
		indexCh <- i
	}
	close(indexCh)
	wg.Wait()

	return results
}
