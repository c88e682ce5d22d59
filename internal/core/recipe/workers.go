package recipe

import (
	"sync"

	"recipe-matcher/internal/core/catalog"
)

const (
	// parallelThreshold 食譜數量少於此值時不開 worker
	parallelThreshold = 512
	// chunkSize 每個工作的食譜數量
	chunkSize = 256
)

// evaluateJob 一段連續的食譜範圍 [start, end)
type evaluateJob struct {
	start int
	end   int
}

// WithWorkers 回傳使用 n 個 worker 平行評估的評估器
func (e *Evaluator) WithWorkers(n int) *Evaluator {
	clone := *e
	clone.workers = n
	return &clone
}

// Workers 平行評估的 worker 數
func (e *Evaluator) Workers() int {
	return e.workers
}

// EvaluateAll 評估所有食譜，結果與輸入順序一致
func (e *Evaluator) EvaluateAll(recipes []Recipe, idx *catalog.Index, queryTokens []string) []Evaluation {
	out := make([]Evaluation, len(recipes))
	if e.workers <= 1 || len(recipes) < parallelThreshold {
		for i, r := range recipes {
			out[i] = e.Evaluate(r, idx, queryTokens)
		}
		return out
	}

	jobs := make(chan evaluateJob, e.workers)
	var wg sync.WaitGroup
	for w := 0; w < e.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				for i := job.start; i < job.end; i++ {
					out[i] = e.Evaluate(recipes[i], idx, queryTokens)
				}
			}
		}()
	}

	for start := 0; start < len(recipes); start += chunkSize {
		jobs <- evaluateJob{start: start, end: min(start+chunkSize, len(recipes))}
	}
	close(jobs)
	wg.Wait()

	return out
}
