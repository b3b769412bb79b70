// Package feast 把用户分类兴趣接到 Feast Feature Store 的在线存储上。
//
// 生产部署里，画像可以由离线任务计算后物化到 Feast，在线链路只读；
// 这里提供 core.PreferenceStore 的只读实现，写入（偏好更新器）仍然
// 走主存储。
package feast

import (
	"context"
	"fmt"
	"sort"
	"time"

	feastsdk "github.com/feast-dev/feast/sdk/go"
	feasttypes "github.com/feast-dev/feast/sdk/go/protos/feast/types"

	"github.com/jibmusil/newsrec/core"
)

// AffinityStore 是基于 Feast 在线特征的只读偏好存储。
//
// 特征组织方式：每个分类一个特征（如 "user_affinity:technology"），
// 实体为用户 ID。Features 给出 categoryID 到特征引用的映射。
type AffinityStore struct {
	client *feastsdk.GrpcClient

	// Project Feast 项目名
	Project string

	// EntityName 实体字段名，默认 "user_id"
	EntityName string

	// Features categoryID -> 特征引用（"feature_table:feature"）
	Features map[int64]string
}

// NewAffinityStore 连接 Feast Feature Server 并构建只读偏好存储。
func NewAffinityStore(host string, port int, project string, features map[int64]string) (*AffinityStore, error) {
	if port == 0 {
		port = 6565 // Feast gRPC 默认端口
	}
	client, err := feastsdk.NewGrpcClient(host, port)
	if err != nil {
		return nil, fmt.Errorf("connect feast: %w", err)
	}
	return &AffinityStore{
		client:   client,
		Project:  project,
		Features: features,
	}, nil
}

func (s *AffinityStore) FindByUser(ctx context.Context, userID int64) ([]*core.PreferenceProfile, error) {
	if s.client == nil || len(s.Features) == 0 {
		return nil, nil
	}

	entityName := s.EntityName
	if entityName == "" {
		entityName = "user_id"
	}

	refs := make([]string, 0, len(s.Features))
	refToCategory := make(map[string]int64, len(s.Features))
	for categoryID, ref := range s.Features {
		refs = append(refs, ref)
		refToCategory[ref] = categoryID
	}
	sort.Strings(refs)

	req := &feastsdk.OnlineFeaturesRequest{
		Features: refs,
		Entities: []feastsdk.Row{
			{entityName: feastsdk.Int64Val(userID)},
		},
		Project: s.Project,
	}

	resp, err := s.client.GetOnlineFeatures(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("feast get online features: %w", err)
	}

	rows := resp.Rows()
	if len(rows) == 0 {
		return nil, nil
	}

	now := time.Now()
	profiles := make([]*core.PreferenceProfile, 0, len(refs))
	for _, ref := range refs {
		val, ok := rows[0][ref]
		if !ok {
			continue
		}
		score, ok := asFloat(val)
		if !ok {
			continue
		}
		profiles = append(profiles, &core.PreferenceProfile{
			UserID:     userID,
			CategoryID: refToCategory[ref],
			Score:      score,
			UpdatedAt:  now,
		})
	}
	return profiles, nil
}

func (s *AffinityStore) FindByUserOrderedByScoreDesc(ctx context.Context, userID int64) ([]*core.PreferenceProfile, error) {
	profiles, err := s.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(profiles, func(i, j int) bool { return profiles[i].Score > profiles[j].Score })
	return profiles, nil
}

func (s *AffinityStore) FindByUserAndCategory(ctx context.Context, userID, categoryID int64) (*core.PreferenceProfile, error) {
	profiles, err := s.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, p := range profiles {
		if p.CategoryID == categoryID {
			return p, nil
		}
	}
	return nil, core.ErrPreferenceNotFound
}

// Save 不支持：Feast 在线存储由离线物化任务写，更新器必须指向主存储。
func (s *AffinityStore) Save(ctx context.Context, profile *core.PreferenceProfile) error {
	return core.ErrStoreNotSupported
}

func (s *AffinityStore) Close() error {
	s.client = nil
	return nil
}

// asFloat 从 Feast 的 Value 提取浮点分数，兼容 double/float/int 存储。
func asFloat(v *feasttypes.Value) (float64, bool) {
	if v == nil {
		return 0, false
	}
	switch val := v.Val.(type) {
	case *feasttypes.Value_DoubleVal:
		return val.DoubleVal, true
	case *feasttypes.Value_FloatVal:
		return float64(val.FloatVal), true
	case *feasttypes.Value_Int64Val:
		return float64(val.Int64Val), true
	case *feasttypes.Value_Int32Val:
		return float64(val.Int32Val), true
	default:
		return 0, false
	}
}

var _ core.PreferenceStore = (*AffinityStore)(nil)
