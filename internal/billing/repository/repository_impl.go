package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/workbill/internal/billing/domain"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

func New(db *gorm.DB) domain.Repository {
	return &repo{db: db}
}

func (r *repo) FindOrCreateService(ctx context.Context, service *domain.Service) error {
	return r.db.WithContext(ctx).
		Where(domain.Service{APITokenID: service.APITokenID, Name: service.Name}).
		Attrs(domain.Service{ID: service.ID, CostPerMs: service.CostPerMs}).
		FirstOrCreate(service).Error
}

func (r *repo) CreateBill(ctx context.Context, bill *domain.Bill) error {
	return r.db.WithContext(ctx).Create(bill).Error
}

type usageRow struct {
	TokenID     snowflake.ID
	TokenName   string
	ServiceID   *snowflake.ID
	ServiceName *string
	CostPerMs   *float64
	Seconds     *float64
}

func (r *repo) WorkspaceUsage(ctx context.Context, workspaceID snowflake.ID) ([]domain.TokenUsage, error) {
	var rows []usageRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT t.id AS token_id,
		       t.name AS token_name,
		       s.id AS service_id,
		       s.name AS service_name,
		       s.cost_per_ms AS cost_per_ms,
		       COALESCE(SUM(b.usage_duration_in_ms), 0) / 1000.0 AS seconds
		FROM api_tokens t
		LEFT JOIN services s ON s.api_token_id = t.id
		LEFT JOIN bills b ON b.service_id = s.id
		WHERE t.workspace_id = ?
		GROUP BY t.id, t.name, s.id, s.name, s.cost_per_ms
		ORDER BY t.name, s.name`,
		workspaceID,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	var tokens []domain.TokenUsage
	index := map[snowflake.ID]int{}
	for _, row := range rows {
		pos, ok := index[row.TokenID]
		if !ok {
			pos = len(tokens)
			index[row.TokenID] = pos
			tokens = append(tokens, domain.TokenUsage{
				TokenID:   row.TokenID,
				TokenName: row.TokenName,
			})
		}
		if row.ServiceID == nil {
			continue
		}
		tokens[pos].Services = append(tokens[pos].Services, domain.ServiceUsage{
			ServiceID:   *row.ServiceID,
			ServiceName: *row.ServiceName,
			CostPerMs:   *row.CostPerMs,
			Seconds:     *row.Seconds,
		})
	}
	return tokens, nil
}
