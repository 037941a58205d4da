package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jao1224/crmimobiliaria-sub000/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AccessScope narrows list queries to the records a user participates in.
// Administrative roles get a nil scope and see everything.
type AccessScope struct {
	UserID string
}

type NegotiationRepository struct {
	db *gorm.DB
}

func NewNegotiationRepository(db *gorm.DB) *NegotiationRepository {
	return &NegotiationRepository{db: db}
}

func (r *NegotiationRepository) Create(ctx context.Context, negotiation *domain.Negotiation) error {
	// Omit associations to avoid GORM trying to validate related records
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(negotiation).Error
}

func (r *NegotiationRepository) CreateDocuments(ctx context.Context, docs []domain.NegotiationDocument) error {
	if len(docs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&docs).Error
}

func (r *NegotiationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Negotiation, error) {
	var negotiation domain.Negotiation
	err := r.db.WithContext(ctx).
		Preload("Documents").
		Where("id = ?", id).
		First(&negotiation).Error
	if err != nil {
		return nil, err
	}
	return &negotiation, nil
}

func (r *NegotiationRepository) GetByCode(ctx context.Context, code string) (*domain.Negotiation, error) {
	var negotiation domain.Negotiation
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&negotiation).Error
	if err != nil {
		return nil, err
	}
	return &negotiation, nil
}

func (r *NegotiationRepository) Update(ctx context.Context, negotiation *domain.Negotiation) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(negotiation).Error
}

// UpdateFields writes only the given column set. Concurrent writers to
// disjoint field sets do not clobber each other.
func (r *NegotiationRepository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	fields["updated_at"] = time.Now()
	return r.db.WithContext(ctx).Model(&domain.Negotiation{}).Where("id = ?", id).Updates(fields).Error
}

// SetStatus updates only the kanban activity status.
func (r *NegotiationRepository) SetStatus(ctx context.Context, id uuid.UUID, status domain.ActivityStatus) error {
	return r.UpdateFields(ctx, id, map[string]interface{}{"status": status})
}

// List returns the working list: not archived, not deleted, scoped to the
// user when scope is non-nil, with the optional admin filters applied.
func (r *NegotiationRepository) List(ctx context.Context, filters *domain.NegotiationFilters, scope *AccessScope) ([]domain.Negotiation, int64, error) {
	query := r.db.WithContext(ctx).Model(&domain.Negotiation{}).
		Where("negotiations.is_archived = ?", false).
		Where("negotiations.is_deleted = ?", false)
	return r.finishList(query, filters, scope)
}

// ListArchived returns archived, non-deleted records.
func (r *NegotiationRepository) ListArchived(ctx context.Context, filters *domain.NegotiationFilters, scope *AccessScope) ([]domain.Negotiation, int64, error) {
	query := r.db.WithContext(ctx).Model(&domain.Negotiation{}).
		Where("negotiations.is_archived = ?", true).
		Where("negotiations.is_deleted = ?", false)
	return r.finishList(query, filters, scope)
}

// ListDeleted returns soft-deleted records regardless of archive flag.
func (r *NegotiationRepository) ListDeleted(ctx context.Context, filters *domain.NegotiationFilters, scope *AccessScope) ([]domain.Negotiation, int64, error) {
	query := r.db.WithContext(ctx).Model(&domain.Negotiation{}).
		Where("negotiations.is_deleted = ?", true)
	return r.finishList(query, filters, scope)
}

// GetByParticipant returns the non-archived, non-deleted negotiations a
// user participates in, for the activity board.
func (r *NegotiationRepository) GetByParticipant(ctx context.Context, userID string) ([]domain.Negotiation, error) {
	var negotiations []domain.Negotiation
	err := r.applyScope(r.db.WithContext(ctx).Model(&domain.Negotiation{}), &AccessScope{UserID: userID}).
		Where("negotiations.is_archived = ?", false).
		Where("negotiations.is_deleted = ?", false).
		Order("negotiations.updated_at DESC").
		Find(&negotiations).Error
	return negotiations, err
}

func (r *NegotiationRepository) finishList(query *gorm.DB, filters *domain.NegotiationFilters, scope *AccessScope) ([]domain.Negotiation, int64, error) {
	var negotiations []domain.Negotiation
	var total int64

	query = r.applyScope(query, scope)
	query = r.applyFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, pageSize := 1, 50
	if filters != nil {
		if filters.Page > 0 {
			page = filters.Page
		}
		if filters.PageSize > 0 {
			pageSize = filters.PageSize
		}
	}
	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).
		Order("negotiations.created_at DESC").
		Find(&negotiations).Error

	return negotiations, total, err
}

// applyScope joins clients so a client-role user matches through the
// client record's linked user id.
func (r *NegotiationRepository) applyScope(query *gorm.DB, scope *AccessScope) *gorm.DB {
	if scope == nil {
		return query
	}
	return query.
		Joins("LEFT JOIN clients ON clients.id = negotiations.client_id").
		Where("negotiations.salesperson_id = ? OR negotiations.realtor_id = ? OR clients.user_id = ?",
			scope.UserID, scope.UserID, scope.UserID)
}

func (r *NegotiationRepository) applyFilters(query *gorm.DB, filters *domain.NegotiationFilters) *gorm.DB {
	if filters == nil {
		return query
	}

	if filters.Stage != nil {
		query = query.Where("negotiations.stage = ?", *filters.Stage)
	}

	if filters.Type != nil {
		query = query.Where("negotiations.type = ?", *filters.Type)
	}

	if filters.ContractStatus != nil {
		query = query.Where("negotiations.contract_status = ?", *filters.ContractStatus)
	}

	if filters.ResponsibleID != nil {
		query = query.Where("negotiations.salesperson_id = ? OR negotiations.realtor_id = ?",
			*filters.ResponsibleID, *filters.ResponsibleID)
	}

	if filters.CreatedFrom != nil {
		query = query.Where("negotiations.created_at >= ?", *filters.CreatedFrom)
	}

	if filters.CreatedTo != nil {
		query = query.Where("negotiations.created_at <= ?", *filters.CreatedTo)
	}

	if filters.Search != "" {
		pattern := "%" + strings.ToLower(filters.Search) + "%"
		query = query.Where(
			"LOWER(negotiations.code) LIKE ? OR LOWER(negotiations.property_name) LIKE ? OR LOWER(negotiations.client_name) LIKE ?",
			pattern, pattern, pattern)
	}

	return query
}

// FindByClientAndProperty returns negotiations whose snapshot names match
// exactly, newest first. Used by the service-request bridge.
func (r *NegotiationRepository) FindByClientAndProperty(ctx context.Context, clientName, propertyName string) ([]domain.Negotiation, error) {
	var negotiations []domain.Negotiation
	err := r.db.WithContext(ctx).
		Where("client_name = ? AND property_name = ?", clientName, propertyName).
		Where("is_deleted = ?", false).
		Order("created_at DESC").
		Find(&negotiations).Error
	return negotiations, err
}

// WithTransaction executes operations within a transaction
func (r *NegotiationRepository) WithTransaction(ctx context.Context, fn func(*gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}
