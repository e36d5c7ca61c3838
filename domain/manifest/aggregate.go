package manifest

import (
	"context"
	"sort"
	"strings"
	"time"

	"backend2/domain/core/entities"
	"backend2/domain/core/valueobjects"
)

// CommunityBrief is what gets offered to an external theme summariser for
// one community: item types, top tags, and short item previews (spec §4.6
// step 5).
type CommunityBrief struct {
	CommunityID     int
	ItemTypes       []string
	TopTags         []string
	ItemPreviews    []string
}

// ThemeSummariser requests a short 2-4 word theme name per community,
// consumed optionally by aggregateCommunities. Defined here, at the
// consumer, per Go convention; infrastructure/summariser.Client implements
// it against the configured external model.
type ThemeSummariser interface {
	SummariseThemes(ctx context.Context, briefs []CommunityBrief) (map[int]string, error)
}

const communityKeywordCap = 5

// aggregateCommunities implements spec §4.6 steps 4-5: per-community
// importance/volatility/keywords, then a default keyword+top-3-title
// summary, optionally replaced by an external summariser's 2-4 word theme
// names for the top-K communities within a bounded timeout — falling back
// silently to the default on error or timeout, exactly as spec §4.6 step 5
// and §5's cancellation rule require.
func aggregateCommunities(
	groups map[int][]valueobjects.ItemID,
	items map[valueobjects.ItemID]*entities.MemoryItem,
	pageRank map[valueobjects.ItemID]float64,
	now int64,
	topK int,
	summariser ThemeSummariser,
	summariserTimeout time.Duration,
) []Community {
	communities := make([]Community, 0, len(groups))
	for id, members := range groups {
		communities = append(communities, buildCommunity(id, members, items, pageRank, now))
	}

	sort.Slice(communities, func(i, j int) bool {
		if communities[i].Importance != communities[j].Importance {
			return communities[i].Importance > communities[j].Importance
		}
		return communities[i].ID < communities[j].ID
	})

	for i := range communities {
		communities[i].Theme = defaultTheme(communities[i], items)
	}

	if summariser == nil || topK <= 0 {
		return communities
	}
	if len(communities) < topK {
		topK = len(communities)
	}

	briefs := make([]CommunityBrief, 0, topK)
	for i := 0; i < topK; i++ {
		briefs = append(briefs, buildBrief(communities[i], items))
	}

	ctx, cancel := context.WithTimeout(context.Background(), summariserTimeout)
	defer cancel()
	themes, err := summariser.SummariseThemes(ctx, briefs)
	if err != nil {
		return communities
	}
	for i := 0; i < topK; i++ {
		if theme, ok := themes[communities[i].ID]; ok && theme != "" {
			communities[i].Theme = theme
		}
	}
	return communities
}

func buildCommunity(id int, members []valueobjects.ItemID, items map[valueobjects.ItemID]*entities.MemoryItem, pageRank map[valueobjects.ItemID]float64, now int64) Community {
	c := Community{ID: id, Members: members}

	tagFreq := make(map[string]int)
	recent := 0
	var latest *entities.MemoryItem
	for _, m := range members {
		c.Importance += pageRank[m]
		item, ok := items[m]
		if !ok {
			continue
		}
		if now-item.UpdatedAt() < 7*millisPerDay {
			recent++
		}
		for _, tag := range item.Tags().Slice() {
			tagFreq[tag]++
		}
		if latest == nil || item.UpdatedAt() > latest.UpdatedAt() {
			latest = item
		}
	}
	if len(members) > 0 {
		c.Volatility = float64(recent) / float64(len(members))
	}
	c.Keywords = topKeywords(tagFreq, communityKeywordCap)
	if latest != nil {
		c.RecentPreview = truncateLabel(latest.Text())
	}
	return c
}

func topKeywords(freq map[string]int, limit int) []string {
	type kv struct {
		tag   string
		count int
	}
	all := make([]kv, 0, len(freq))
	for tag, count := range freq {
		all = append(all, kv{tag, count})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].count != all[j].count {
			return all[i].count > all[j].count
		}
		return all[i].tag < all[j].tag
	})
	if len(all) > limit {
		all = all[:limit]
	}
	out := make([]string, len(all))
	for i, e := range all {
		out[i] = e.tag
	}
	return out
}

// defaultTheme concatenates the top keywords and the titles of the top 3
// items by importance (spec §4.6 step 5's default).
func defaultTheme(c Community, items map[valueobjects.ItemID]*entities.MemoryItem) string {
	top := topItemsByImportance(c.Members, items, 3)
	titles := make([]string, 0, len(top))
	for _, id := range top {
		titles = append(titles, truncateLabel(items[id].Text()))
	}

	var b strings.Builder
	if len(c.Keywords) > 0 {
		b.WriteString(strings.Join(c.Keywords, ", "))
	}
	if len(titles) > 0 {
		if b.Len() > 0 {
			b.WriteString(" — ")
		}
		b.WriteString(strings.Join(titles, "; "))
	}
	if b.Len() == 0 {
		return "uncategorised"
	}
	return b.String()
}

func topItemsByImportance(members []valueobjects.ItemID, items map[valueobjects.ItemID]*entities.MemoryItem, n int) []valueobjects.ItemID {
	ranked := make([]valueobjects.ItemID, 0, len(members))
	for _, m := range members {
		if _, ok := items[m]; ok {
			ranked = append(ranked, m)
		}
	}
	sort.Slice(ranked, func(i, j int) bool {
		ii, jj := items[ranked[i]], items[ranked[j]]
		if ii.Importance() != jj.Importance() {
			return ii.Importance() > jj.Importance()
		}
		return ranked[i].String() < ranked[j].String()
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

func buildBrief(c Community, items map[valueobjects.ItemID]*entities.MemoryItem) CommunityBrief {
	typeSet := make(map[string]struct{})
	var types []string
	previews := make([]string, 0, 5)
	top := topItemsByImportance(c.Members, items, 5)
	for _, id := range top {
		item := items[id]
		if _, seen := typeSet[string(item.Type())]; !seen {
			typeSet[string(item.Type())] = struct{}{}
			types = append(types, string(item.Type()))
		}
		previews = append(previews, previewText(item.Text(), 100))
	}
	return CommunityBrief{
		CommunityID:  c.ID,
		ItemTypes:    types,
		TopTags:      c.Keywords,
		ItemPreviews: previews,
	}
}

func previewText(text string, maxChars int) string {
	r := []rune(text)
	if len(r) <= maxChars {
		return text
	}
	return string(r[:maxChars])
}
