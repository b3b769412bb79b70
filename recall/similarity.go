package recall

import "math"

// CosineSimilarity 计算两个稀疏兴趣向量（categoryID -> score）的余弦相似度。
//
// 只在两个向量共同出现的分类交集上计算：仅出现在一侧的分类贡献为零，
// 这是标准的稀疏余弦语义。交集为空或任一侧在交集上的范数为零时返回 0.0，
// 永远不是错误。
//
// 输入分数在 [0,1] 时输出在 [0,1]；一般非负输入下输出不超过 [-1,1]。
// 满足对称性：CosineSimilarity(a, b) == CosineSimilarity(b, a)。
func CosineSimilarity(v1, v2 map[int64]float64) float64 {
	if len(v1) == 0 || len(v2) == 0 {
		return 0.0
	}

	// 遍历较小的一侧，找交集
	small, large := v1, v2
	if len(v2) < len(v1) {
		small, large = v2, v1
	}

	var dot, norm1, norm2 float64
	for key, a := range small {
		b, ok := large[key]
		if !ok {
			continue
		}
		dot += a * b
		norm1 += a * a
		norm2 += b * b
	}

	if norm1 == 0.0 || norm2 == 0.0 {
		return 0.0
	}
	return dot / (math.Sqrt(norm1) * math.Sqrt(norm2))
}
