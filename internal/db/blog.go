package db

import "time"

// Blog 状态常量
const (
	StateDraft     = "draft"
	StatePublished = "published"
)

// Blog 定义了文章模型。
// (author_id, title) 上的复合唯一索引是标题查重的最终权威，
// 服务层的预检查只是快速路径。
type Blog struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:255;not null;uniqueIndex:idx_blogs_author_title" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Body        string    `gorm:"type:text;not null" json:"body"`
	AuthorID    uint      `gorm:"not null;uniqueIndex:idx_blogs_author_title" json:"author_id"`
	Author      *User     `json:"author,omitempty"`
	State       string    `gorm:"size:16;not null;default:draft;index" json:"state"`
	ReadCount   uint64    `gorm:"not null;default:0" json:"read_count"`
	ReadingTime int       `gorm:"not null;default:0" json:"reading_time"`
	Tags        []Tag     `gorm:"many2many:blog_tags;" json:"-"`
	TagNames    []string  `gorm:"-" json:"tags"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// IsValidState 判断给定字符串是否为合法的文章状态。
func IsValidState(state string) bool {
	return state == StateDraft || state == StatePublished
}

// PopulateDerivedFields 根据关联数据填充仅用于序列化的派生字段。
func (b *Blog) PopulateDerivedFields() {
	names := make([]string, 0, len(b.Tags))
	for _, tag := range b.Tags {
		names = append(names, tag.Name)
	}
	b.TagNames = names
}
