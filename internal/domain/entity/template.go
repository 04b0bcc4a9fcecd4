// Package entity 定义领域实体
package entity

import (
	"time"

	"github.com/lib/pq"
)

// Template 法律文书模板
// 目录条目由运营侧独立维护，标题命名并不规范：可能带扩展名、大小写混用。
// NormalizedTitle 是匹配键，不要求在目录内唯一。
type Template struct {
	ID              string         `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Title           string         `json:"title" gorm:"type:varchar(255);not null"`
	NormalizedTitle string         `json:"normalized_title" gorm:"type:varchar(255);index;not null"`
	Body            string         `json:"body,omitempty" gorm:"type:text"`
	Tags            pq.StringArray `json:"tags,omitempty" gorm:"type:text[]"`
	CreatedAt       time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Template) TableName() string {
	return "templates"
}
