// Package recall implements the recall() operation of spec §4.4: seed
// activation from a query, spreading activation, weighted scoring, scope
// filtering, and ranking.
package recall

import (
	"math"
	"sort"
	"strings"

	"backend2/domain/activation"
	"backend2/domain/config"
	"backend2/domain/core/aggregates"
	"backend2/domain/core/entities"
	"backend2/domain/core/valueobjects"
	"backend2/domain/graphengine"
)

const millisPerDay = 86400000

// Result is one scored, ranked recall hit.
type Result struct {
	Item       *entities.MemoryItem
	Activation float64
	Score      float64
}

// Query describes a recall request.
type Query struct {
	Text  string
	Limit int
	Scope string
}

// Run executes the full recall pipeline against state using engine and
// policy, returning results in descending score order (ties broken by
// descending importance, then ascending id, per spec §4.4 step 5).
func Run(state *aggregates.State, engine *graphengine.Engine, policy *config.Policy, q Query, now int64) []Result {
	limit := q.Limit
	if limit <= 0 {
		limit = policy.DefaultRecallLimit
	}

	seeds := seedActivation(state, q.Text)
	if len(seeds) == 0 {
		return nil
	}

	activationMap := activation.Spread(engine, seeds, activation.Params{
		Steps:     policy.ActivationSteps,
		Decay:     policy.ActivationDecay,
		Threshold: policy.ActivationThreshold,
	})

	var results []Result
	for id, item := range state.Items() {
		if q.Scope != "" && !item.Scope().Equals(mustScope(q.Scope)) {
			continue
		}
		act := activationMap[id]
		score := score(act, item, now, policy)
		results = append(results, Result{Item: item, Activation: act, Score: score})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		if results[i].Item.Importance() != results[j].Item.Importance() {
			return results[i].Item.Importance() > results[j].Item.Importance()
		}
		return results[i].Item.ID().String() < results[j].Item.ID().String()
	})

	if len(results) > limit {
		results = results[:limit]
	}

	for _, r := range results {
		r.Item.Touch(now)
	}

	return results
}

// seedActivation tokenises the query and matches items whose text or tags
// contain a token (case-insensitive), assigning each matched seed an
// activation proportional to match strength, clamped to 1.0.
func seedActivation(state *aggregates.State, query string) activation.Map {
	tokens := tokenize(query)
	if len(tokens) == 0 {
		return nil
	}

	seeds := make(activation.Map)
	for id, item := range state.Items() {
		hits := matchCount(item, tokens)
		if hits == 0 {
			continue
		}
		strength := float64(hits) / float64(len(tokens))
		if strength > 1.0 {
			strength = 1.0
		}
		seeds[id] = strength
	}
	return seeds
}

func matchCount(item *entities.MemoryItem, tokens []string) int {
	lowerText := strings.ToLower(item.Text())
	tagSlice := item.Tags().Slice()
	hits := 0
	for _, t := range tokens {
		if strings.Contains(lowerText, t) {
			hits++
			continue
		}
		for _, tag := range tagSlice {
			if strings.Contains(tag, t) {
				hits++
				break
			}
		}
	}
	return hits
}

func tokenize(query string) []string {
	fields := strings.Fields(strings.ToLower(query))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, ".,!?;:\"'()[]{}")
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

// score combines final activation, recency, and importance per the
// configured weights (spec §4.4 step 3, default 0.60/0.25/0.15).
func score(act float64, item *entities.MemoryItem, now int64, policy *config.Policy) float64 {
	recency := recencyScore(item.LastAccessedAt(), now)
	return policy.RecallActivationWeight*act +
		policy.RecallRecencyWeight*recency +
		policy.RecallImportanceWeight*item.Importance()
}

// recencyScore applies exponential decay over days since lastAccessedAt,
// with a 7-day half-life — consistent with the energy decay shape used
// elsewhere in the lifecycle.
func recencyScore(lastAccessedAt, now int64) float64 {
	ageDays := float64(now-lastAccessedAt) / float64(millisPerDay)
	if ageDays <= 0 {
		return 1.0
	}
	const halfLife = 7.0
	return math.Exp(math.Ln2 * -1 * ageDays / halfLife)
}

func mustScope(raw string) valueobjects.Scope {
	s, err := valueobjects.NewScope(raw)
	if err != nil {
		s, _ = valueobjects.NewScope("")
	}
	return s
}
