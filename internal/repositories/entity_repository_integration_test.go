package repositories

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"rheuma-portal/internal/entities"
	"rheuma-portal/internal/schema"
	"rheuma-portal/migrations"
	apperrors "rheuma-portal/pkg/errors"
	"rheuma-portal/pkg/types"
)

var testPool *pgxpool.Pool

// TestMain подключается к тестовой БД из TEST_DATABASE_URL и накатывает миграции.
// Без переменной интеграционные тесты пропускаются.
func TestMain(m *testing.M) {
	testDbUrl := os.Getenv("TEST_DATABASE_URL")
	if testDbUrl != "" {
		var err error
		testPool, err = pgxpool.New(context.Background(), testDbUrl)
		if err != nil {
			log.Fatalf("Не удалось подключиться к тестовой БД: %v", err)
		}
		if err := migrations.Up(testPool); err != nil {
			log.Fatalf("Не удалось применить схему БД: %v", err)
		}
	}

	code := m.Run()
	if testPool != nil {
		testPool.Close()
	}
	os.Exit(code)
}

func integrationRepo(t *testing.T) EntityRepositoryInterface {
	t.Helper()
	if testPool == nil {
		t.Skip("TEST_DATABASE_URL не задан")
	}
	_, err := testPool.Exec(context.Background(),
		`TRUNCATE TABLE registrations, center_staff, centers, news, partners, chief_rheumatologists, diseases, charter RESTART IDENTITY CASCADE;`)
	require.NoError(t, err, "Не удалось очистить таблицы")
	return NewEntityRepository(testPool, NewTxManager(testPool), zap.NewNop())
}

func createRecord(t *testing.T, repo EntityRepositoryInterface, e *schema.Entity, input map[string]interface{}) entities.Record {
	t.Helper()
	clean, err := e.Sanitize(input, false)
	require.NoError(t, err)
	created, err := repo.Create(context.Background(), e, clean)
	require.NoError(t, err)
	return created
}

func TestEntityRepository_Integration_CreateFillsMissingLocales(t *testing.T) {
	repo := integrationRepo(t)

	created := createRecord(t, repo, schema.Partners, map[string]interface{}{"name_ru": "Минздрав"})

	id, ok := created.ID()
	require.True(t, ok)
	assert.Positive(t, id)
	assert.Equal(t, "Минздрав", created["name_ru"])
	assert.Equal(t, "", created["name_uz"])
	assert.Equal(t, "", created["name_en"])
	assert.Equal(t, true, created["is_active"])
}

func TestEntityRepository_Integration_ListActiveOnlyOrdered(t *testing.T) {
	repo := integrationRepo(t)
	ctx := context.Background()

	createRecord(t, repo, schema.News, map[string]interface{}{"title_ru": "Б", "order": 2, "is_published": true})
	createRecord(t, repo, schema.News, map[string]interface{}{"title_ru": "А", "order": 1, "is_published": true})
	createRecord(t, repo, schema.News, map[string]interface{}{"title_ru": "Черновик", "is_published": false})

	list, total, err := repo.List(ctx, schema.News, types.Filter{ActiveOnly: true})
	require.NoError(t, err)
	assert.Equal(t, uint64(2), total)
	require.Len(t, list, 2)
	assert.Equal(t, "А", list[0]["title_ru"])
	assert.Equal(t, "Б", list[1]["title_ru"])
}

func TestEntityRepository_Integration_UpdateAndNotFound(t *testing.T) {
	repo := integrationRepo(t)
	ctx := context.Background()

	created := createRecord(t, repo, schema.Charter, map[string]interface{}{"title_ru": "Устав"})
	id, _ := created.ID()

	updated, err := repo.Update(ctx, schema.Charter, id, entities.Record{"title_uz": "Nizom"})
	require.NoError(t, err)
	assert.Equal(t, "Устав", updated["title_ru"])
	assert.Equal(t, "Nizom", updated["title_uz"])

	_, err = repo.Update(ctx, schema.Charter, id+100, entities.Record{"title_uz": "x"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = repo.Find(ctx, schema.Charter, id+100)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestEntityRepository_Integration_DeleteCascadesStaff(t *testing.T) {
	repo := integrationRepo(t)
	ctx := context.Background()

	center := createRecord(t, repo, schema.Centers, map[string]interface{}{"name_ru": "РНЦ"})
	centerID, _ := center.ID()
	createRecord(t, repo, schema.CenterStaff, map[string]interface{}{"name_ru": "Иванов", "center_id": centerID})

	require.NoError(t, repo.Delete(ctx, schema.Centers, centerID))

	_, total, err := repo.List(ctx, schema.CenterStaff, types.Filter{})
	require.NoError(t, err)
	assert.Zero(t, total)

	assert.ErrorIs(t, repo.Delete(ctx, schema.Centers, centerID), apperrors.ErrNotFound)
}

func TestEntityRepository_Integration_FileReferences(t *testing.T) {
	repo := integrationRepo(t)

	createRecord(t, repo, schema.Diseases, map[string]interface{}{
		"title_ru":  "Подагра",
		"file_url":  "/uploads/documents/2026/10/01/a.pdf",
		"image_url": "",
	})

	refs, err := repo.FileReferences(context.Background(), schema.Diseases)
	require.NoError(t, err)
	assert.Equal(t, []string{"/uploads/documents/2026/10/01/a.pdf"}, refs)
}
