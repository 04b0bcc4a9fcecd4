// Package entity 定义领域实体
package entity

import "time"

// CachedQuery 对话缓存条目
// Query 为规范化（小写、去首尾空白）后的用户提问，按精确匹配命中。
// 仅追加，不更新。
type CachedQuery struct {
	ID        string    `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Query     string    `json:"query" gorm:"type:text;index;not null"`
	Response  string    `json:"response" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (CachedQuery) TableName() string {
	return "cached_queries"
}

func NewCachedQuery(query, response string) *CachedQuery {
	return &CachedQuery{
		Query:     query,
		Response:  response,
		CreatedAt: time.Now(),
	}
}
