package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"project-field-api/internal/domain"
	"project-field-api/internal/dto"
	"project-field-api/internal/repository"
	"project-field-api/internal/response"
)

// testEnv wires the registries against an in-memory sqlite database
type testEnv struct {
	db          *gorm.DB
	fieldRepo   repository.FieldRepository
	ruleRepo    repository.FieldRuleRepository
	projectRepo repository.ProjectRepository
	types       FieldTypeCatalog
	fields      FieldService
	rules       FieldRuleService
	evaluation  EvaluationService
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return setupTestEnvWithDepth(t, DefaultMaxParentDepth)
}

func setupTestEnvWithDepth(t *testing.T, maxDepth int) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&domain.Project{}, &domain.FieldType{}, &domain.Field{}, &domain.FieldRule{}))

	env := &testEnv{
		db:          db,
		fieldRepo:   repository.NewFieldRepository(db),
		ruleRepo:    repository.NewFieldRuleRepository(db),
		projectRepo: repository.NewProjectRepository(db),
	}
	tx := repository.NewTransactor(db)

	env.types = NewFieldTypeService(repository.NewFieldTypeRepository(db), env.fieldRepo, nil, nil)
	env.fields = NewFieldService(env.fieldRepo, env.ruleRepo, env.types, tx, nil, nil, maxDepth)
	env.rules = NewFieldRuleService(env.ruleRepo, env.fieldRepo, env.projectRepo, env.types, tx, nil, nil)
	env.evaluation = NewEvaluationService(env.fieldRepo, env.ruleRepo, env.types, nil, nil)

	_, err = env.types.SeedSystemTypes(context.Background())
	require.NoError(t, err)
	return env
}

func (e *testEnv) mustCreateField(t *testing.T, name, typeName string, parent *string, values ...string) *dto.FieldResponse {
	t.Helper()
	field, err := e.fields.CreateField(context.Background(), &dto.CreateFieldRequest{
		Name:   name,
		Type:   typeName,
		Parent: parent,
		Values: values,
	})
	require.NoError(t, err)
	return field
}

func (e *testEnv) mustCreateRule(t *testing.T, req *dto.CreateFieldRuleRequest) *dto.FieldRuleResponse {
	t.Helper()
	rule, err := e.rules.CreateFieldRule(context.Background(), req)
	require.NoError(t, err)
	return rule
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func boolPtr(b bool) *bool { return &b }

// appErrorField returns the offending attribute of a validation error
func appErrorField(t *testing.T, err error) string {
	t.Helper()
	var appErr *response.AppError
	require.ErrorAs(t, err, &appErr)
	return appErr.Field
}
