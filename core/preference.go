package core

import "time"

// 偏好分数的固定阈值。高/低偏好不是按请求可调的参数。
const (
	// DefaultPreferenceScore 是 (user, category) 首次交互时的初始分数。
	DefaultPreferenceScore = 0.5

	// HighPreferenceThreshold 分数 >= 0.7 视为高偏好，偏好召回只取高偏好分类。
	HighPreferenceThreshold = 0.7

	// LowPreferenceThreshold 分数 <= 0.3 视为低偏好。
	LowPreferenceThreshold = 0.3
)

// PreferenceProfile 是某个用户对某个分类的兴趣画像。
//
// 约束：
//   - (UserID, CategoryID) 全局唯一，至多一条
//   - Score 始终在 [0.0, 1.0] 闭区间内，任何更新路径都不允许越界
//   - 只由偏好更新器修改；推荐链路只读
type PreferenceProfile struct {
	UserID     int64
	CategoryID int64
	Score      float64
	UpdatedAt  time.Time
}

// NewPreferenceProfile 以默认分数 0.5 惰性创建画像。
func NewPreferenceProfile(userID, categoryID int64) *PreferenceProfile {
	return &PreferenceProfile{
		UserID:     userID,
		CategoryID: categoryID,
		Score:      DefaultPreferenceScore,
		UpdatedAt:  time.Now(),
	}
}

// Adjust 施加带符号调整量并夹紧到 [0.0, 1.0]。
func (p *PreferenceProfile) Adjust(delta float64) {
	p.Score += delta
	if p.Score > 1.0 {
		p.Score = 1.0
	}
	if p.Score < 0.0 {
		p.Score = 0.0
	}
	p.UpdatedAt = time.Now()
}

// HighPreference 判断是否为高偏好分类。
func (p *PreferenceProfile) HighPreference() bool {
	return p.Score >= HighPreferenceThreshold
}

// LowPreference 判断是否为低偏好分类。
func (p *PreferenceProfile) LowPreference() bool {
	return p.Score <= LowPreferenceThreshold
}

// AffinityVector 把一组画像转成稀疏向量：categoryID -> score。
// 余弦相似度、协同过滤都在这个向量上工作。
func AffinityVector(profiles []*PreferenceProfile) map[int64]float64 {
	if len(profiles) == 0 {
		return nil
	}
	vec := make(map[int64]float64, len(profiles))
	for _, p := range profiles {
		vec[p.CategoryID] = p.Score
	}
	return vec
}
