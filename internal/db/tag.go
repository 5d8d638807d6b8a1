package db

import "time"

// Tag 定义了标签模型，文章通过名称引用标签。
type Tag struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;unique;not null" json:"name"`
	Blogs     []Blog    `gorm:"many2many:blog_tags;" json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
