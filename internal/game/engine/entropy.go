package engine

import "math/rand/v2"

// Entropy 外部随机源：每次战斗/刷兵/扩张取一个 [0,9] 的因子。
// 引擎自身从不生成随机数。
type Entropy interface {
	Factor() int
}

type seededEntropy struct {
	rng *rand.Rand
}

// NewSeededEntropy 同一个 seed 总是产生同一串因子。
func NewSeededEntropy(seed uint64) Entropy {
	return &seededEntropy{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (e *seededEntropy) Factor() int { return e.rng.IntN(10) }

// SequenceEntropy 按给定顺序循环回放因子，测试和回放用。
type SequenceEntropy struct {
	factors []int
	next    int
}

func NewSequenceEntropy(factors ...int) *SequenceEntropy {
	if len(factors) == 0 {
		factors = []int{5}
	}
	return &SequenceEntropy{factors: factors}
}

func (e *SequenceEntropy) Factor() int {
	f := e.factors[e.next%len(e.factors)]
	e.next++
	return ((f % 10) + 10) % 10
}

// Drawn 已消费的因子个数。
func (e *SequenceEntropy) Drawn() int { return e.next }
