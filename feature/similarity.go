package feature

import (
	"math"
	"sort"
)

// Cosine 计算两个特征向量的余弦相似度。
//
// 约定：
//   - 两侧应持有相同的 key 集合；实现上取并集并对缺失维度按 0 处理，
//     保证顺序无关与确定性（key 先排序再成数组）
//   - 任一侧为全零向量时退化，返回 0 而不是报错
//   - 输入均非负时结果落在 [0,1]
func Cosine(a, b Vector) float64 {
	keys := make([]string, 0, len(a)+len(b))
	seen := make(map[string]struct{}, len(a)+len(b))
	for k := range a {
		keys = append(keys, k)
		seen[k] = struct{}{}
	}
	for k := range b {
		if _, ok := seen[k]; !ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var dot, normA, normB float64
	for _, k := range keys {
		va := a[k]
		vb := b[k]
		dot += va * vb
		normA += va * va
		normB += vb * vb
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
