package repositories

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"rheuma-portal/internal/entities"
	"rheuma-portal/pkg/types"
)

const registrationTable = "registrations"

var registrationColumns = []string{
	"id", "school_type", "event_id", "last_name", "first_name", "middle_name", "phone",
	"city", "category", "inn", "email", "specialization", "workplace", "created_at",
}

var registrationAllowedFilterFields = map[string]bool{"school_type": true, "event_id": true}

type RegistrationRepositoryInterface interface {
	Create(ctx context.Context, reg *entities.Registration) (*entities.Registration, error)
	List(ctx context.Context, filter types.Filter) ([]entities.Registration, uint64, error)
}

type RegistrationRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewRegistrationRepository(storage *pgxpool.Pool, logger *zap.Logger) RegistrationRepositoryInterface {
	return &RegistrationRepository{storage: storage, logger: logger}
}

func (r *RegistrationRepository) Create(ctx context.Context, reg *entities.Registration) (*entities.Registration, error) {
	sqlQuery, args, err := psql.Insert(registrationTable).
		Columns(registrationColumns[1 : len(registrationColumns)-1]...).
		Values(reg.SchoolType, reg.EventID, reg.LastName, reg.FirstName, reg.MiddleName, reg.Phone,
			reg.City, reg.Category, reg.INN, reg.Email, reg.Specialization, reg.Workplace).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, err
	}

	created := *reg
	if err := r.storage.QueryRow(ctx, sqlQuery, args...).Scan(&created.ID, &created.CreatedAt); err != nil {
		return nil, mapPgError(fmt.Errorf("ошибка сохранения заявки: %w", err))
	}
	return &created, nil
}

func (r *RegistrationRepository) List(ctx context.Context, filter types.Filter) ([]entities.Registration, uint64, error) {
	where := sq.And{}
	for _, key := range sortedFilterKeys(filter.Filter) {
		if registrationAllowedFilterFields[key] {
			where = append(where, sq.Eq{key: filter.Filter[key]})
		}
	}
	if filter.Type != "" {
		where = append(where, sq.Eq{"school_type": filter.Type})
	}

	countQuery, countArgs, err := psql.Select("COUNT(*)").From(registrationTable).Where(where).ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ошибка подсчёта заявок: %w", err)
	}
	if total == 0 {
		return []entities.Registration{}, 0, nil
	}

	builder := psql.Select(registrationColumns...).From(registrationTable).Where(where).OrderBy("created_at DESC", "id DESC")
	if filter.WithPagination && filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit)).Offset(uint64(filter.Offset))
	}
	sqlQuery, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.storage.Query(ctx, sqlQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка получения заявок: %w", err)
	}
	list, err := pgx.CollectRows(rows, pgx.RowToStructByName[entities.Registration])
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}
