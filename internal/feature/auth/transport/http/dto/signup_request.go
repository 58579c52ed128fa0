// Package dto はauthフィーチャーのHTTPトランスポート層のデータ転送オブジェクトを定義します。
package dto

// SignupReq は POST /user エンドポイントのリクエストボディを表します。
// 必須フィールド・メール形式・パスワード長のバリデーションを含みます。
type SignupReq struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// UserResp は作成されたユーザーを返すレスポンスボディです。
// パスワードハッシュは決して含めません。
type UserResp struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
