package model

// User 用户模型
type User struct {
	ID            int64  `gorm:"primaryKey;autoIncrement;comment:用户标识" json:"id"`
	UserName      string `gorm:"size:255;not null;uniqueIndex;comment:用户名" json:"user_name"`
	Password      string `gorm:"size:255;not null;comment:密码" json:"-"` // json:"-" 序列化时忽略密码
	FirstName     string `gorm:"size:150;comment:名" json:"first_name"`
	LastName      string `gorm:"size:150;comment:姓" json:"last_name"`
	UserRole      string `gorm:"size:32;not null;default:'user';comment:用户角色" json:"user_role"`
	FollowCount   int64  `gorm:"not null;default:0;comment:关注其他作者的个数" json:"follow_count"`
	FollowerCount int64  `gorm:"not null;default:0;comment:粉丝个数" json:"follower_count"`

	// 关联关系
	Posts    []Post    `gorm:"foreignKey:AuthorID" json:"posts,omitempty"`
	Comments []Comment `gorm:"foreignKey:UserID" json:"comments,omitempty"`
}

func (User) TableName() string {
	return "users"
}
