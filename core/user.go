package core

// User 是用户的只读视图。
// 用户的注册、认证、生命周期由外部用户服务负责；推荐链路只关心
// 用户是否存在、是否活跃。
type User struct {
	ID     int64
	Active bool
}
