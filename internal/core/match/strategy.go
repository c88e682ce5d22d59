package match

import (
	"fmt"
	"strings"
)

// 策略名稱
const (
	StrategyContainment = "containment"
	StrategyFuzzy       = "fuzzy"

	// DefaultFuzzyCutoff 模糊比對的預設門檻
	DefaultFuzzyCutoff = 75
)

// Strategy 食材名稱與商品名稱的相似度計算方式
// 輸入皆為已正規化的字串
type Strategy interface {
	// Name 策略名稱
	Name() string
	// Score 相似度，0–100
	Score(token, candidate string) int
	// Cutoff 視為符合的最低分數
	Cutoff() int
}

// NewStrategy 依名稱建立策略
func NewStrategy(name string, cutoff int) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case StrategyContainment, "":
		return ContainmentStrategy{}, nil
	case StrategyFuzzy:
		return NewFuzzyStrategy(cutoff), nil
	default:
		return nil, fmt.Errorf("unknown match strategy %q", name)
	}
}

// ContainmentStrategy 子字串包含：任一方包含另一方即為符合
type ContainmentStrategy struct{}

// Name 策略名稱
func (ContainmentStrategy) Name() string { return StrategyContainment }

// Cutoff 只接受完全包含
func (ContainmentStrategy) Cutoff() int { return 100 }

// Score 包含時為 100，否則為 0
func (ContainmentStrategy) Score(token, candidate string) int {
	if token == "" || candidate == "" {
		return 0
	}
	if strings.Contains(candidate, token) || strings.Contains(token, candidate) {
		return 100
	}
	return 0
}
