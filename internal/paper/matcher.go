package paper

import "github.com/mind-engage/mindengage-qpaper/internal/question"

// Tier is how specifically a bucket's questions matched its request.
type Tier string

const (
	TierExact     Tier = "exact"
	TierMarksOnly Tier = "marks_only"
	TierBLOnly    Tier = "bl_only"
	TierAny       Tier = "any"
)

type rung struct {
	tier  Tier
	match func(q question.Question, b Bucket) bool
}

// ladder is ordered from most to least specific.
var ladder = []rung{
	{TierExact, func(q question.Question, b Bucket) bool { return q.Marks == b.Marks && q.BL == b.BL }},
	{TierMarksOnly, func(q question.Question, b Bucket) bool { return q.Marks == b.Marks }},
	{TierBLOnly, func(q question.Question, b Bucket) bool { return q.BL == b.BL }},
	{TierAny, func(question.Question, Bucket) bool { return true }},
}

// UsedSet tracks question ids already placed on the paper.
type UsedSet map[string]struct{}

func (u UsedSet) Has(id string) bool { _, ok := u[id]; return ok }
func (u UsedSet) Add(id string)      { u[id] = struct{}{} }

// Match is the outcome of one bucket.
type Match struct {
	Questions []question.Question
	Tier      Tier
}

type Matcher struct {
	selector Selector
}

func NewMatcher(s Selector) *Matcher {
	if s == nil {
		s = RandomSelector{}
	}
	return &Matcher{selector: s}
}

// MatchBucket selects up to b.Count unused candidates from a single tier and
// marks them used. The chosen tier is the most specific one that can fill the
// whole bucket; when none can, it is the most specific one with anything
// eligible. Selections never mix tiers. When nothing is left at all the
// result is empty with Tier set to TierAny.
//
// Buckets sharing a UsedSet must be matched one after another, in request
// order.
func (m *Matcher) MatchBucket(candidates []question.Question, b Bucket, used UsedSet) Match {
	var (
		fallback     []question.Question
		fallbackTier Tier
	)
	for _, r := range ladder {
		eligible := eligibleAt(candidates, b, used, r)
		if len(eligible) == 0 {
			continue
		}
		if len(eligible) >= b.Count {
			return m.pick(eligible, b.Count, r.tier, used)
		}
		if fallback == nil {
			fallback, fallbackTier = eligible, r.tier
		}
	}
	if fallback == nil {
		return Match{Questions: []question.Question{}, Tier: TierAny}
	}
	return m.pick(fallback, b.Count, fallbackTier, used)
}

func eligibleAt(candidates []question.Question, b Bucket, used UsedSet, r rung) []question.Question {
	var out []question.Question
	seen := UsedSet{}
	for _, q := range candidates {
		if used.Has(q.ID) || seen.Has(q.ID) || !r.match(q, b) {
			continue
		}
		seen.Add(q.ID)
		out = append(out, q)
	}
	return out
}

func (m *Matcher) pick(eligible []question.Question, n int, t Tier, used UsedSet) Match {
	picked := m.selector.Select(eligible, n)
	for _, q := range picked {
		used.Add(q.ID)
	}
	return Match{Questions: picked, Tier: t}
}
