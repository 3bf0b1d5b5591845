package rank

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/rushteam/recipekit/codec"
	"github.com/rushteam/recipekit/core"
	"github.com/rushteam/recipekit/rerank"
)

// DefaultPrefix 是榜单 key 的默认前缀。
const DefaultPrefix = "rank"

// Publisher 把 Report 写入 RankingStore：
//   - <prefix>:<category>:<season>          ZSET，member 为 recipe_id，score 为 Final
//   - <prefix>:<category>:<season>:entries  HASH，field 为 recipe_id，value 为条目 JSON
//
// 每次发布先删除旧榜单，所以重复发布同一份 Report 结果一致。
type Publisher struct {
	Store  core.RankingStore
	Prefix string
}

func NewPublisher(s core.RankingStore) *Publisher {
	return &Publisher{Store: s, Prefix: DefaultPrefix}
}

func (p *Publisher) prefix() string {
	if p.Prefix == "" {
		return DefaultPrefix
	}
	return p.Prefix
}

// Key 返回 (category, season) 榜单的 ZSET key。
func (p *Publisher) Key(cat core.Category, season core.Season) string {
	return fmt.Sprintf("%s:%s:%s", p.prefix(), cat, season)
}

func (p *Publisher) entriesKey(cat core.Category, season core.Season) string {
	return p.Key(cat, season) + ":entries"
}

// Publish 写入全部 12 个组合；跳过的组只做清理，不留下旧数据。
func (p *Publisher) Publish(ctx context.Context, rep *Report) error {
	for _, cat := range core.Categories {
		for _, season := range core.Seasons {
			if err := p.Store.Delete(ctx, p.Key(cat, season), p.entriesKey(cat, season)); err != nil {
				return fmt.Errorf("%s: clear %s/%s: %w", p.Store.Name(), cat, season, err)
			}
		}
	}

	for _, g := range rep.Groups {
		key, ekey := p.Key(g.Category, g.Season), p.entriesKey(g.Category, g.Season)
		for _, e := range g.Entries {
			member := strconv.FormatInt(e.RecipeID, 10)
			if err := p.Store.ZAdd(ctx, key, e.Final, member); err != nil {
				return fmt.Errorf("%s: zadd %s: %w", p.Store.Name(), key, err)
			}
			buf, err := codec.Marshal(e)
			if err != nil {
				return fmt.Errorf("encode entry %d: %w", e.RecipeID, err)
			}
			if err := p.Store.HSet(ctx, ekey, member, buf); err != nil {
				return fmt.Errorf("%s: hset %s: %w", p.Store.Name(), ekey, err)
			}
		}
	}
	return nil
}

// Fetch 读回一个组合的前 n 个条目（n <= 0 表示全部）。
// ZSET 同分时按成员字符串排序，与榜单的并列规则不同，所以整组读出后按 Rank 重排再截断。
func (p *Publisher) Fetch(ctx context.Context, cat core.Category, season core.Season, n int) ([]core.RankingEntry, error) {
	ids, err := p.Store.ZRange(ctx, p.Key(cat, season), 0, -1)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}
	raw, err := p.Store.HGetAll(ctx, p.entriesKey(cat, season))
	if err != nil {
		return nil, err
	}

	out := make([]core.RankingEntry, 0, len(ids))
	for _, id := range ids {
		buf, ok := raw[id]
		if !ok {
			return nil, core.NewDomainError(core.ModuleStore, core.ErrorCodeNotFound,
				fmt.Sprintf("entry %s missing from %s", id, p.entriesKey(cat, season)))
		}
		var e core.RankingEntry
		if err := codec.Unmarshal(buf, &e); err != nil {
			return nil, fmt.Errorf("decode entry %s: %w", id, err)
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Rank != out[j].Rank {
			return out[i].Rank < out[j].Rank
		}
		return rerank.Less(out[i], out[j])
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out, nil
}
