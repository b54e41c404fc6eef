package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"announceslider/internal/model"

	"github.com/jmoiron/sqlx"
)

// ErrNotFound 记录不存在
var ErrNotFound = errors.New("announcement not found")

const announcementColumns = "id, organization_id, title, content, status, created_at, updated_at, published_at"

const announcementSchema = `
	CREATE TABLE IF NOT EXISTS announcements (
		id              VARCHAR(64)  NOT NULL PRIMARY KEY,
		organization_id VARCHAR(128) NOT NULL,
		title           VARCHAR(255) NOT NULL,
		content         MEDIUMTEXT   NOT NULL,
		status          VARCHAR(16)  NOT NULL,
		created_at      DATETIME     NOT NULL,
		updated_at      DATETIME     NOT NULL,
		published_at    DATETIME     NULL,
		INDEX idx_org_status_published (organization_id, status, published_at)
	)
`

// AnnouncementRepository 公告存储库
type AnnouncementRepository struct {
	db *sqlx.DB
}

// NewAnnouncementRepository 创建公告存储库实例
func NewAnnouncementRepository(db *sqlx.DB) *AnnouncementRepository {
	return &AnnouncementRepository{db: db}
}

// EnsureSchema 建表（已存在则跳过）
func (r *AnnouncementRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, announcementSchema); err != nil {
		return fmt.Errorf("创建公告表失败: %w", err)
	}
	return nil
}

// ListByOrganization 分页获取组织下指定状态的公告
func (r *AnnouncementRepository) ListByOrganization(ctx context.Context, orgID string, status model.Status, page, limit int) ([]model.AnnouncementItem, error) {
	items := []model.AnnouncementItem{}
	offset := (page - 1) * limit

	query := `
		SELECT ` + announcementColumns + ` FROM announcements
		WHERE organization_id = ? AND status = ?
		ORDER BY published_at DESC, created_at DESC
		LIMIT ? OFFSET ?
	`
	if err := r.db.SelectContext(ctx, &items, query, orgID, string(status), limit, offset); err != nil {
		return nil, err
	}
	return items, nil
}

// GetByID 根据ID获取公告
func (r *AnnouncementRepository) GetByID(ctx context.Context, id string) (*model.AnnouncementItem, error) {
	var item model.AnnouncementItem
	query := "SELECT " + announcementColumns + " FROM announcements WHERE id = ?"
	if err := r.db.GetContext(ctx, &item, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// Create 新增公告
func (r *AnnouncementRepository) Create(ctx context.Context, item *model.AnnouncementItem) error {
	query := `
		INSERT INTO announcements (` + announcementColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		item.ID, item.OrganizationID, item.Title, item.Content, string(item.Status),
		item.CreatedAt, item.UpdatedAt, item.PublishedAt,
	)
	return err
}

// UpdateStatus 修改公告状态；发布时若尚无发布时间则写入 now
func (r *AnnouncementRepository) UpdateStatus(ctx context.Context, id string, status model.Status, now time.Time) error {
	var (
		result sql.Result
		err    error
	)
	if status == model.StatusPublished {
		query := `
			UPDATE announcements
			SET status = ?, updated_at = ?, published_at = COALESCE(published_at, ?)
			WHERE id = ?
		`
		result, err = r.db.ExecContext(ctx, query, string(status), now, now, id)
	} else {
		query := "UPDATE announcements SET status = ?, updated_at = ? WHERE id = ?"
		result, err = r.db.ExecContext(ctx, query, string(status), now, id)
	}
	if err != nil {
		return err
	}
	return requireAffected(result)
}

// Delete 删除公告
func (r *AnnouncementRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM announcements WHERE id = ?", id)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

func requireAffected(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
