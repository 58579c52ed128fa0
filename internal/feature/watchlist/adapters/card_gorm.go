// Package adapters はwatchlistフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"watchlist_backend/internal/feature/watchlist/domain/entity"
	"watchlist_backend/internal/feature/watchlist/usecase"
)

// WatchlistModel はユーザーごとのウォッチリストの永続化モデルです。
// カードリスト全体をJSONとして1行に保存します（ユーザーごとに1行、上書き保存）。
type WatchlistModel struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"not null;uniqueIndex"`
	Payload   string    `gorm:"type:text;not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName はテーブル名を明示します。
func (WatchlistModel) TableName() string { return "stock_lists" }

// cardGorm はCardRepositoryインターフェースのgorm実装です。
type cardGorm struct {
	db *gorm.DB
}

var _ usecase.CardRepository = (*cardGorm)(nil)

// NewCardRepository は指定されたDB接続でcardGormリポジトリの新しいインスタンスを生成します。
func NewCardRepository(db *gorm.DB) *cardGorm {
	return &cardGorm{db: db}
}

// Load はユーザーの保存済みカードリストを取得します。
// 行が存在しない場合は空リストを返します。ペイロードが破損している場合も
// エラーにせず、警告ログを出して空リストに縮退します。
func (r *cardGorm) Load(ctx context.Context, userID uint) ([]entity.Card, error) {
	var row WatchlistModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []entity.Card{}, nil
		}
		return nil, fmt.Errorf("failed to load watchlist row: %w", err)
	}

	var cards []entity.Card
	if err := json.Unmarshal([]byte(row.Payload), &cards); err != nil {
		// 破損データは呼び出し元に伝播させない。空リストとして扱う。
		slog.Warn("corrupt watchlist payload, falling back to empty list",
			"user_id", userID, "error", err)
		return []entity.Card{}, nil
	}
	if cards == nil {
		cards = []entity.Card{}
	}
	return cards, nil
}

// Save はユーザーのカードリストをJSONとして上書き保存します。
// マージは行いません（last writer wins）。
func (r *cardGorm) Save(ctx context.Context, userID uint, cards []entity.Card) error {
	if cards == nil {
		cards = []entity.Card{}
	}
	payload, err := json.Marshal(cards)
	if err != nil {
		return fmt.Errorf("failed to marshal watchlist: %w", err)
	}

	row := WatchlistModel{UserID: userID, Payload: string(payload)}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
		}).
		Create(&row).Error; err != nil {
		return fmt.Errorf("failed to save watchlist row: %w", err)
	}
	return nil
}
