package dto

// UserInfo 用户公开信息（不含密码）
type UserInfo struct {
	ID            int64  `json:"id"`
	Username      string `json:"user_name"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	UserRole      string `json:"user_role"`
	FollowCount   int64  `json:"follow_count"`
	FollowerCount int64  `json:"follower_count"`
}

// UserBrief 嵌在列表里的用户简要信息
type UserBrief struct {
	ID        int64  `json:"id"`
	Username  string `json:"user_name"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// ProfileData 作者主页数据：作者信息、帖子分页、关注关系
type ProfileData struct {
	Author    UserInfo     `json:"author"`
	Following bool         `json:"following"` // 当前访问者是否已关注该作者，匿名访问恒为 false
	Follows   []UserBrief  `json:"follows"`   // 该作者关注的人
	Followers []UserBrief  `json:"followers"` // 关注该作者的人
	Posts     PostListData `json:"posts"`
}
