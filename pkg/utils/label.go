package utils

// Label 是分类链路的解释标签：每个 Node 把自己的判断理由写成 Label，
// 结果导出或调试时可以回溯一条记录是怎样被归类的。
type Label struct {
	Value  string `json:"value"`
	Source string `json:"source"` // feature / classify / lexicon / arbiter ...
}

// MergeLabel 合并同名 Label，保留历史：
// - Value: 以 '|' 累积
// - Source: 以 ',' 累积
func MergeLabel(existing Label, incoming Label) Label {
	if existing.Value == "" {
		return incoming
	}
	if incoming.Value == "" {
		return existing
	}

	merged := existing
	merged.Value = existing.Value + "|" + incoming.Value
	switch {
	case existing.Source == "":
		merged.Source = incoming.Source
	case incoming.Source == "", incoming.Source == existing.Source:
		merged.Source = existing.Source
	default:
		merged.Source = existing.Source + "," + incoming.Source
	}
	return merged
}
