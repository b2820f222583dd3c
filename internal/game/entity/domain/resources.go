package domain

import "fmt"

// ResourceKind 是可被消耗/产出的原材料种类。
type ResourceKind uint8

const (
	ResourceNone ResourceKind = iota
	Wood
	Stone
	Iron
	Horses
	Gems
)

var resourceNames = [...]string{"none", "wood", "stone", "iron", "horses", "gems"}

func (k ResourceKind) String() string {
	if int(k) >= len(resourceNames) {
		return fmt.Sprintf("resource(%d)", uint8(k))
	}
	return resourceNames[k]
}

// Resources 玩家库存。Gold 可为负（维护费压力），其余恒 >= 0。
type Resources struct {
	Gold   int `json:"gold"`
	Wood   int `json:"wood"`
	Stone  int `json:"stone"`
	Iron   int `json:"iron"`
	Horses int `json:"horses"`
	Gems   int `json:"gems"`
}

func (r *Resources) ptr(k ResourceKind) *int {
	switch k {
	case Wood:
		return &r.Wood
	case Stone:
		return &r.Stone
	case Iron:
		return &r.Iron
	case Horses:
		return &r.Horses
	case Gems:
		return &r.Gems
	}
	return nil
}

func (r Resources) Get(k ResourceKind) int {
	if p := r.ptr(k); p != nil {
		return *p
	}
	return 0
}

// Has 判断 k 是否足够 n。ResourceNone 视为总是足够。
func (r Resources) Has(k ResourceKind, n int) bool {
	return k == ResourceNone || n <= 0 || r.Get(k) >= n
}

// Spend 扣减，不足时不改动并返回 false。
func (r *Resources) Spend(k ResourceKind, n int) bool {
	if !r.Has(k, n) {
		return false
	}
	if p := r.ptr(k); p != nil && n > 0 {
		*p -= n
	}
	return true
}

// AddCapped 增加并截断到 capacity。
func (r *Resources) AddCapped(k ResourceKind, n, capacity int) {
	p := r.ptr(k)
	if p == nil {
		return
	}
	*p = min(*p+n, capacity)
	if *p < 0 {
		*p = 0
	}
}

// ClampStorage 把所有无符号资源截到仓储上限。
func (r *Resources) ClampStorage(capacity int) {
	r.Gems = min(r.Gems, capacity)
	r.Wood = min(r.Wood, capacity)
	r.Stone = min(r.Stone, capacity)
	r.Iron = min(r.Iron, capacity)
	r.Horses = min(r.Horses, capacity)
}
