package dto

// LoginReq は POST /auth/login エンドポイントのリクエストボディを表します。
type LoginReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenResp はログイン成功時に署名済みJWTを返すレスポンスボディです。
type TokenResp struct {
	Token string `json:"token"`
}
