package repositories

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"rheuma-portal/internal/entities"
	apperrors "rheuma-portal/pkg/errors"
	"rheuma-portal/pkg/types"
)

const userTableRepo = "users"
const userSelectFieldsForEntityRepo = "id, username, email, full_name, password, role, is_active, created_at, updated_at"

type UserRepositoryInterface interface {
	GetUsers(ctx context.Context, filter types.Filter) ([]entities.User, uint64, error)
	FindUserByID(ctx context.Context, id uint64) (*entities.User, error)
	FindUserByLogin(ctx context.Context, login string) (*entities.User, error)
	CreateUser(ctx context.Context, entity *entities.User) (*entities.User, error)
	UpdateRole(ctx context.Context, id uint64, role string) (*entities.User, error)
	DeleteUser(ctx context.Context, id uint64) error
	CountByRole(ctx context.Context, role string) (uint64, error)
}

type UserRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewUserRepository(storage *pgxpool.Pool, logger *zap.Logger) UserRepositoryInterface {
	return &UserRepository{storage: storage, logger: logger}
}

func scanUser(row pgx.Row) (*entities.User, error) {
	var user entities.User
	err := row.Scan(
		&user.ID, &user.Username, &user.Email, &user.FullName, &user.Password,
		&user.Role, &user.IsActive, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetUsers(ctx context.Context, filter types.Filter) ([]entities.User, uint64, error) {
	where := sq.And{}
	if role, ok := filter.Filter["role"]; ok {
		where = append(where, sq.Eq{"role": role})
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		where = append(where, sq.Or{
			sq.Expr("username ILIKE ?", pattern),
			sq.Expr("email ILIKE ?", pattern),
			sq.Expr("full_name ILIKE ?", pattern),
		})
	}

	countQuery, countArgs, err := psql.Select("COUNT(id)").From(userTableRepo).Where(where).ToSql()
	if err != nil {
		return nil, 0, err
	}
	var totalCount uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("ошибка подсчета пользователей: %w", err)
	}
	if totalCount == 0 {
		return []entities.User{}, 0, nil
	}

	builder := psql.Select(userSelectFieldsForEntityRepo).From(userTableRepo).Where(where).OrderBy("id DESC")
	if filter.WithPagination && filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit)).Offset(uint64(filter.Offset))
	}
	mainQuery, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, err
	}
	r.logger.Debug("Выполнение основного SQL-запроса", zap.String("query", mainQuery), zap.Any("args", args))

	rows, err := r.storage.Query(ctx, mainQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка получения пользователей: %w", err)
	}
	defer rows.Close()

	users := make([]entities.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, *user)
	}
	return users, totalCount, rows.Err()
}

func (r *UserRepository) FindUserByID(ctx context.Context, id uint64) (*entities.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, userSelectFieldsForEntityRepo, userTableRepo)
	user, err := scanUser(r.storage.QueryRow(ctx, query, id))
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.ErrUserNotFound
	}
	return user, err
}

// FindUserByLogin ищет по username или email без учёта регистра.
func (r *UserRepository) FindUserByLogin(ctx context.Context, login string) (*entities.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE LOWER(username) = LOWER($1) OR LOWER(email) = LOWER($1) LIMIT 1`, userSelectFieldsForEntityRepo, userTableRepo)
	user, err := scanUser(r.storage.QueryRow(ctx, query, strings.TrimSpace(login)))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) CreateUser(ctx context.Context, entity *entities.User) (*entities.User, error) {
	query := fmt.Sprintf(`
        INSERT INTO %s (username, email, full_name, password, role, is_active)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING %s
    `, userTableRepo, userSelectFieldsForEntityRepo)

	row := r.storage.QueryRow(ctx, query,
		entity.Username, entity.Email, entity.FullName, entity.Password, entity.Role, entity.IsActive,
	)

	createdEntity, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			if strings.Contains(pgErr.ConstraintName, "users_email_key") {
				return nil, apperrors.NewHttpError(http.StatusConflict, "Email уже используется.", apperrors.ErrConflict, nil)
			}
			return nil, apperrors.NewHttpError(http.StatusConflict, "Имя пользователя уже занято.", apperrors.ErrConflict, nil)
		}
		return nil, err
	}
	return createdEntity, nil
}

func (r *UserRepository) UpdateRole(ctx context.Context, id uint64, role string) (*entities.User, error) {
	query := fmt.Sprintf(`UPDATE %s SET role = $1, updated_at = NOW() WHERE id = $2 RETURNING %s`, userTableRepo, userSelectFieldsForEntityRepo)
	user, err := scanUser(r.storage.QueryRow(ctx, query, role, id))
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.ErrUserNotFound
	}
	return user, err
}

func (r *UserRepository) DeleteUser(ctx context.Context, id uint64) error {
	result, err := r.storage.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) CountByRole(ctx context.Context, role string) (uint64, error) {
	var count uint64
	err := r.storage.QueryRow(ctx, `SELECT COUNT(id) FROM users WHERE role = $1`, role).Scan(&count)
	return count, err
}
