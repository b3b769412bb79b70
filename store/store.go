package store

// 注意：此包只包含实现，接口定义在 core 包。
// 通用 KV 使用 core.Store / core.KeyValueStore；
// 领域存储使用 core.ArticleStore / core.UserStore /
// core.PreferenceStore / core.InteractionStore。
//
// 示例：
//   var kv core.KeyValueStore = NewMemoryStore()
//   var articles core.ArticleStore = NewMemoryArticleStore()
