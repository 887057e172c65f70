package repositories

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"rheuma-portal/internal/entities"
	"rheuma-portal/internal/schema"
	apperrors "rheuma-portal/pkg/errors"
	"rheuma-portal/pkg/types"
)

// EntityRepositoryInterface - одно хранилище на все типы контента;
// таблицу и колонки берёт из описания сущности.
type EntityRepositoryInterface interface {
	List(ctx context.Context, e *schema.Entity, filter types.Filter) ([]entities.Record, uint64, error)
	Find(ctx context.Context, e *schema.Entity, id uint64) (entities.Record, error)
	Create(ctx context.Context, e *schema.Entity, record entities.Record) (entities.Record, error)
	Update(ctx context.Context, e *schema.Entity, id uint64, record entities.Record) (entities.Record, error)
	Delete(ctx context.Context, e *schema.Entity, id uint64) error
	Exists(ctx context.Context, e *schema.Entity, id uint64) (bool, error)
	FileReferences(ctx context.Context, e *schema.Entity) ([]string, error)
}

type EntityRepository struct {
	storage   *pgxpool.Pool
	txManager TxManagerInterface
	logger    *zap.Logger
}

func NewEntityRepository(storage *pgxpool.Pool, txManager TxManagerInterface, logger *zap.Logger) EntityRepositoryInterface {
	return &EntityRepository{storage: storage, txManager: txManager, logger: logger}
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// querier - общее у пула и транзакции.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// quote экранирует имя колонки: среди колонок есть "order".
func quote(column string) string {
	return pgx.Identifier{column}.Sanitize()
}

func selectList(e *schema.Entity) string {
	cols := e.Columns()
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = quote(c)
	}
	return strings.Join(quoted, ", ")
}

// listConditions собирает WHERE для списка и для подсчёта.
func listConditions(e *schema.Entity, filter types.Filter) []sq.Sqlizer {
	var conds []sq.Sqlizer

	if filter.ActiveOnly && e.ActiveColumn != "" {
		conds = append(conds, sq.Eq{quote(e.ActiveColumn): true})
	}
	if filter.Type != "" && e.TypeColumn != "" {
		conds = append(conds, sq.Eq{quote(e.TypeColumn): filter.Type})
	}
	for _, key := range sortedFilterKeys(filter.Filter) {
		if !e.Filterable(key) {
			continue
		}
		conds = append(conds, sq.Eq{quote(key): filter.Filter[key]})
	}
	if filter.Search != "" {
		var or sq.Or
		pattern := fmt.Sprintf("%%%s%%", filter.Search)
		for _, col := range e.SearchColumns() {
			or = append(or, sq.Expr(fmt.Sprintf("%s ILIKE ?", quote(col)), pattern))
		}
		if len(or) > 0 {
			conds = append(conds, or)
		}
	}
	return conds
}

func buildListQuery(e *schema.Entity, filter types.Filter) sq.SelectBuilder {
	builder := psql.Select(selectList(e)).From(e.Table)
	for _, c := range listConditions(e, filter) {
		builder = builder.Where(c)
	}
	builder = builder.OrderBy(e.OrderBy...)
	if filter.WithPagination && filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit)).Offset(uint64(filter.Offset))
	}
	return builder
}

func buildCountQuery(e *schema.Entity, filter types.Filter) sq.SelectBuilder {
	builder := psql.Select("COUNT(*)").From(e.Table)
	for _, c := range listConditions(e, filter) {
		builder = builder.Where(c)
	}
	return builder
}

func (r *EntityRepository) List(ctx context.Context, e *schema.Entity, filter types.Filter) ([]entities.Record, uint64, error) {
	countSQL, countArgs, err := buildCountQuery(e, filter).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ToSql for count query: %w", err)
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ошибка подсчёта записей %s: %w", e.Name, err)
	}
	if total == 0 {
		return []entities.Record{}, 0, nil
	}

	sqlQuery, args, err := buildListQuery(e, filter).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ToSql for data query: %w", err)
	}
	r.logger.Debug("Выполнение SQL-запроса списка", zap.String("entity", e.Name), zap.String("query", sqlQuery), zap.Any("args", args))

	rows, err := r.storage.Query(ctx, sqlQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("db.Query failed for SQL: '%s': %w", sqlQuery, err)
	}
	records, err := collectRecords(rows)
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

func (r *EntityRepository) Find(ctx context.Context, e *schema.Entity, id uint64) (entities.Record, error) {
	sqlQuery, args, err := psql.Select(selectList(e)).From(e.Table).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	return queryOne(ctx, r.storage, sqlQuery, args...)
}

func (r *EntityRepository) Create(ctx context.Context, e *schema.Entity, record entities.Record) (entities.Record, error) {
	cols, vals := columnsAndValues(record)
	if len(cols) == 0 {
		return nil, apperrors.NewBadRequestError("пустая запись")
	}
	sqlQuery, args, err := psql.Insert(e.Table).
		Columns(cols...).
		Values(vals...).
		Suffix("RETURNING " + selectList(e)).
		ToSql()
	if err != nil {
		return nil, err
	}
	created, err := queryOne(ctx, r.storage, sqlQuery, args...)
	if err != nil {
		return nil, mapPgError(err)
	}
	r.logger.Info("Создана запись", zap.String("entity", e.Name), zap.Any("id", created["id"]))
	return created, nil
}

func (r *EntityRepository) Update(ctx context.Context, e *schema.Entity, id uint64, record entities.Record) (entities.Record, error) {
	if len(record) == 0 {
		return r.Find(ctx, e, id)
	}
	builder := psql.Update(e.Table).Set("updated_at", sq.Expr("NOW()"))
	cols, vals := columnsAndValues(record)
	for i, col := range cols {
		builder = builder.Set(col, vals[i])
	}
	sqlQuery, args, err := builder.
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + selectList(e)).
		ToSql()
	if err != nil {
		return nil, err
	}
	updated, err := queryOne(ctx, r.storage, sqlQuery, args...)
	if err != nil {
		return nil, mapPgError(err)
	}
	return updated, nil
}

// Delete удаляет запись вместе с зависимыми (центр -> сотрудники) в одной транзакции.
func (r *EntityRepository) Delete(ctx context.Context, e *schema.Entity, id uint64) error {
	return r.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		for _, child := range e.Children {
			childEntity, err := schema.Lookup(child.Entity)
			if err != nil {
				return fmt.Errorf("зависимая сущность %s: %w", child.Entity, err)
			}
			sqlQuery, args, err := psql.Delete(childEntity.Table).Where(sq.Eq{quote(child.ForeignKey): id}).ToSql()
			if err != nil {
				return err
			}
			tag, err := tx.Exec(ctx, sqlQuery, args...)
			if err != nil {
				return fmt.Errorf("ошибка удаления %s: %w", childEntity.Name, err)
			}
			r.logger.Debug("Удалены зависимые записи", zap.String("entity", childEntity.Name), zap.Int64("count", tag.RowsAffected()))
		}

		sqlQuery, args, err := psql.Delete(e.Table).Where(sq.Eq{"id": id}).ToSql()
		if err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, sqlQuery, args...)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return apperrors.ErrNotFound
		}
		return nil
	})
}

func (r *EntityRepository) Exists(ctx context.Context, e *schema.Entity, id uint64) (bool, error) {
	var exists bool
	query := fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s WHERE id = $1)", e.Table)
	if err := r.storage.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// FileReferences - все непустые URL файлов, на которые ссылаются записи сущности.
func (r *EntityRepository) FileReferences(ctx context.Context, e *schema.Entity) ([]string, error) {
	var refs []string
	for _, col := range e.FileColumns() {
		sqlQuery, args, err := psql.Select(quote(col)).From(e.Table).Where(sq.NotEq{quote(col): ""}).ToSql()
		if err != nil {
			return nil, err
		}
		rows, err := r.storage.Query(ctx, sqlQuery, args...)
		if err != nil {
			return nil, fmt.Errorf("ошибка чтения %s.%s: %w", e.Table, col, err)
		}
		values, err := pgx.CollectRows(rows, pgx.RowTo[string])
		if err != nil {
			return nil, err
		}
		refs = append(refs, values...)
	}
	return refs, nil
}

func columnsAndValues(record entities.Record) ([]string, []interface{}) {
	keys := sortedFilterKeys(record)
	cols := make([]string, 0, len(keys))
	vals := make([]interface{}, 0, len(keys))
	for _, k := range keys {
		if k == "id" || k == "created_at" || k == "updated_at" {
			continue
		}
		cols = append(cols, quote(k))
		vals = append(vals, record[k])
	}
	return cols, vals
}

func collectRecords(rows pgx.Rows) ([]entities.Record, error) {
	defer rows.Close()

	fieldDescriptions := rows.FieldDescriptions()
	result := make([]entities.Record, 0)
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("rows.Values: %w", err)
		}
		rowMap := make(entities.Record, len(values))
		for i, fd := range fieldDescriptions {
			rowMap[fd.Name] = values[i]
		}
		result = append(result, rowMap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err: %w", err)
	}
	return result, nil
}

func queryOne(ctx context.Context, q querier, sqlQuery string, args ...interface{}) (entities.Record, error) {
	rows, err := q.Query(ctx, sqlQuery, args...)
	if err != nil {
		return nil, err
	}
	records, err := collectRecords(rows)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return records[0], nil
}

func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case "23505":
		return apperrors.NewHttpError(http.StatusConflict, "Запись с такими данными уже существует.", apperrors.ErrConflict, nil)
	case "23503":
		return apperrors.NewHttpError(http.StatusBadRequest, "Нарушение внешнего ключа.", apperrors.ErrBadRequest, nil)
	case "23502", "22001":
		return apperrors.NewHttpError(http.StatusBadRequest, "Недопустимое значение колонки "+pgErr.ColumnName+".", apperrors.ErrBadRequest, nil)
	}
	return err
}

func sortedFilterKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
