package utils

// Label 是推荐链路中的解释标签：可解释、可追踪、可透传。
// Value 记录内容（策略名 / 命中的规则 / 邻居摘要），Source 记录产出阶段。
type Label struct {
	Value  string `json:"value"`
	Source string `json:"source"` // strategy / filter / rerank / engine ...
}

// MergeLabel 合并同名 Label，遵循"保留历史、可追踪"的默认策略。
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
	case incoming.Source == "":
		merged.Source = existing.Source
	default:
		merged.Source = existing.Source + "," + incoming.Source
	}
	return merged
}
