package match

import (
	"math"
	"strings"

	"github.com/agnivade/levenshtein"
)

// FuzzyStrategy 部分相似度比對
// 以較短字串對較長字串中每個等長視窗計算 Levenshtein 比例，取最高分
type FuzzyStrategy struct {
	cutoff int
}

// NewFuzzyStrategy 創建模糊比對策略，門檻不合法時使用預設值
func NewFuzzyStrategy(cutoff int) FuzzyStrategy {
	if cutoff <= 0 || cutoff > 100 {
		cutoff = DefaultFuzzyCutoff
	}
	return FuzzyStrategy{cutoff: cutoff}
}

// Name 策略名稱
func (FuzzyStrategy) Name() string { return StrategyFuzzy }

// Cutoff 門檻
func (f FuzzyStrategy) Cutoff() int { return f.cutoff }

// Score 部分相似度
func (FuzzyStrategy) Score(token, candidate string) int {
	return PartialRatio(token, candidate)
}

// Ratio 兩字串的相似度：1 - 距離/較長長度
func Ratio(a, b string) int {
	la, lb := len([]rune(a)), len([]rune(b))
	longest := max(la, lb)
	if longest == 0 {
		return 0
	}
	dist := levenshtein.ComputeDistance(a, b)
	return int(math.Round(100 * (1 - float64(dist)/float64(longest))))
}

// PartialRatio 較短字串對較長字串各視窗的最高相似度
func PartialRatio(a, b string) int {
	if a == "" || b == "" {
		return 0
	}

	shorter, longer := []rune(a), []rune(b)
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}
	if strings.Contains(string(longer), string(shorter)) {
		return 100
	}

	s := string(shorter)
	best := 0
	for start := 0; start+len(shorter) <= len(longer); start++ {
		score := Ratio(s, string(longer[start:start+len(shorter)]))
		if score > best {
			best = score
		}
	}
	return best
}
