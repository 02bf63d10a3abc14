package dto

// LoginRequest 登录请求（来自登录表单或 JSON）
type LoginRequest struct {
	Username string `form:"username" json:"username" binding:"required,min=1,max=255"`
	Password string `form:"password" json:"password" binding:"required,min=6,max=255"`
	Next     string `form:"next" json:"next" binding:"omitempty,max=500"`
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Username  string `form:"username" json:"username" binding:"required,min=1,max=255"`
	Password  string `form:"password" json:"password" binding:"required,min=6,max=255"`
	FirstName string `form:"first_name" json:"first_name" binding:"omitempty,max=150"`
	LastName  string `form:"last_name" json:"last_name" binding:"omitempty,max=150"`
}

// TokenData 登录成功返回的 Token 信息
type TokenData struct {
	Token     string   `json:"token"`
	TokenType string   `json:"token_type"`
	ExpiresIn int      `json:"expires_in"`
	User      UserInfo `json:"user"`
}

// LoginFormView 登录表单的渲染描述（GET /auth/login/）
type LoginFormView struct {
	Username string `json:"username"`
	Next     string `json:"next"`
}
