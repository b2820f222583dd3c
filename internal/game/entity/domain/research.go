package domain

// ResearchTracker 同一时间最多研究一项科技。
type ResearchTracker struct {
	Current   Technology `json:"current"`
	Points    int        `json:"points"`
	Completed TechSet    `json:"completed"`
}

func (r *ResearchTracker) Active() bool { return r.Current != TechNone }

func (r *ResearchTracker) IsCompleted(t Technology) bool { return r.Completed.Has(t) }

// CheckStart 只校验不修改。
func (r *ResearchTracker) CheckStart(t Technology) error {
	if !t.Valid() {
		return ErrInvalidResearch.WithData("tech", int(t))
	}
	if r.Completed.Has(t) {
		return ErrResearchAlreadyCompleted.WithData("tech", t.String())
	}
	if r.Active() {
		return ErrAlreadyResearching.WithData("current", r.Current.String())
	}
	if !r.Completed.Has(t.Stats().Prereq) {
		return ErrCannotResearch.WithData("tech", t.String()).WithData("prereq", t.Stats().Prereq.String())
	}
	return nil
}

func (r *ResearchTracker) Start(t Technology) error {
	if err := r.CheckStart(t); err != nil {
		return err
	}
	r.Current = t
	r.Points = 0
	return nil
}

// AddPoints 只有在研究中才累计，随后尝试完成；返回本次完成的科技。
func (r *ResearchTracker) AddPoints(n int) (Technology, bool) {
	if !r.Active() {
		return TechNone, false
	}
	r.Points += n
	done := r.Current
	if r.TryComplete() != nil {
		return TechNone, false
	}
	return done, true
}

// TryComplete 点数达到花费时把当前科技移入已完成集合。
func (r *ResearchTracker) TryComplete() error {
	if !r.Active() {
		return ErrNoActiveResearch
	}
	cost := r.Current.Stats().Cost
	if r.Points < cost {
		return ErrResearchNotComplete.WithData("points", r.Points).WithData("cost", cost)
	}
	r.Completed = r.Completed.With(r.Current)
	r.Current = TechNone
	r.Points = 0
	return nil
}
