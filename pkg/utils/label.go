package utils

// Label 是推荐链路中的一等公民：可解释、可追踪、可透传。
// 召回源用它标记候选来源（recall_source），过滤与融合用它做策略决策。
type Label struct {
	Value  string `json:"value"`
	Source string `json:"source"` // recall / fusion / filter / rule ...
}

// MergeLabel 合并同名 Label，遵循"保留历史、可追踪"的默认策略。
// - Value: 以 '|' 累积
// - Source: 以 ',' 累积
//
// 需要覆盖式或优先级规则时，在上层封装自己的 merge 策略。
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
