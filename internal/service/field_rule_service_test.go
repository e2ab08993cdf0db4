package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"project-field-api/internal/domain"
	"project-field-api/internal/dto"
	"project-field-api/internal/response"
)

// seedRuleFields creates the fields most rule tests point at
func seedRuleFields(t *testing.T, env *testEnv) {
	t.Helper()
	env.mustCreateField(t, "Technology Type", "Select", nil, "Solar", "Wind", "Hybrid Solar+Storage")
	env.mustCreateField(t, "Capacity", "Number", nil)
	env.mustCreateField(t, "Storage Capacity", "Number", nil)
	env.mustCreateField(t, "Notes", "Text", nil)
	env.mustCreateField(t, "COD", "Date", nil)
}

func TestFieldRuleService_CreateFieldRule(t *testing.T) {
	ctx := context.Background()

	t.Run("성공: 기본값 적용", func(t *testing.T) {
		env := setupTestEnv(t)
		seedRuleFields(t, env)

		rule, err := env.rules.CreateFieldRule(ctx, &dto.CreateFieldRuleRequest{
			Name:           "Storage only for hybrids",
			ConditionField: "Technology Type",
			Operator:       "=",
			Value:          "Hybrid Solar+Storage",
			Action:         "Enable",
			TargetField:    "Storage Capacity",
			ActionValue:    strPtr("ignored"),
		})
		require.NoError(t, err)
		assert.Equal(t, 0, rule.Priority)
		assert.True(t, rule.IsActive)
		assert.Nil(t, rule.ActionValue, "only Modify keeps an action value")
		assert.NotEqual(t, uuid.Nil, rule.ID)
	})

	t.Run("성공: Clear 는 자기 참조 허용", func(t *testing.T) {
		env := setupTestEnv(t)
		seedRuleFields(t, env)

		_, err := env.rules.CreateFieldRule(ctx, &dto.CreateFieldRuleRequest{
			ConditionField: "Capacity", Operator: "<", Value: "0",
			Action: "Clear", TargetField: "Capacity",
		})
		require.NoError(t, err)
	})

	t.Run("성공: Modify 값이 대상 선택지에 포함", func(t *testing.T) {
		env := setupTestEnv(t)
		seedRuleFields(t, env)

		rule, err := env.rules.CreateFieldRule(ctx, &dto.CreateFieldRuleRequest{
			ConditionField: "Storage Capacity", Operator: ">", Value: "0",
			Action: "Modify", TargetField: "Technology Type", ActionValue: strPtr("Hybrid Solar+Storage"),
		})
		require.NoError(t, err)
		require.NotNil(t, rule.ActionValue)
		assert.Equal(t, "Hybrid Solar+Storage", *rule.ActionValue)
	})

	t.Run("성공: 존재하는 프로젝트", func(t *testing.T) {
		env := setupTestEnv(t)
		seedRuleFields(t, env)
		project := &domain.Project{Name: "Mesa Solar"}
		require.NoError(t, env.projectRepo.Create(ctx, project))

		rule, err := env.rules.CreateFieldRule(ctx, &dto.CreateFieldRuleRequest{
			ConditionField: "Capacity", Operator: ">=", Value: "100",
			Action: "Require", TargetField: "COD", ProjectID: &project.ID,
		})
		require.NoError(t, err)
		require.NotNil(t, rule.ProjectID)
		assert.Equal(t, project.ID, *rule.ProjectID)
	})

	cases := []struct {
		name      string
		req       *dto.CreateFieldRuleRequest
		wantField string
	}{
		{
			name: "실패: Hide 자기 참조",
			req: &dto.CreateFieldRuleRequest{
				ConditionField: "Capacity", Operator: ">", Value: "10", Action: "Hide", TargetField: "Capacity",
			},
			wantField: "targetField",
		},
		{
			name: "실패: Disable 자기 참조",
			req: &dto.CreateFieldRuleRequest{
				ConditionField: "Notes", Operator: "=", Value: "", Action: "Disable", TargetField: "Notes",
			},
			wantField: "targetField",
		},
		{
			name: "실패: 존재하지 않는 조건 필드",
			req: &dto.CreateFieldRuleRequest{
				ConditionField: "Voltage", Operator: "=", Value: "1", Action: "Hide", TargetField: "Notes",
			},
			wantField: "conditionField",
		},
		{
			name: "실패: 존재하지 않는 대상 필드",
			req: &dto.CreateFieldRuleRequest{
				ConditionField: "Capacity", Operator: "=", Value: "1", Action: "Hide", TargetField: "Voltage",
			},
			wantField: "targetField",
		},
		{
			name: "실패: 텍스트에 순서 비교",
			req: &dto.CreateFieldRuleRequest{
				ConditionField: "Notes", Operator: ">", Value: "a", Action: "Hide", TargetField: "Capacity",
			},
			wantField: "operator",
		},
		{
			name: "실패: 숫자로 해석할 수 없는 값",
			req: &dto.CreateFieldRuleRequest{
				ConditionField: "Capacity", Operator: ">", Value: "large", Action: "Hide", TargetField: "Notes",
			},
			wantField: "value",
		},
		{
			name: "실패: 빈 in 목록",
			req: &dto.CreateFieldRuleRequest{
				ConditionField: "Technology Type", Operator: "in", Value: " , ", Action: "Hide", TargetField: "Notes",
			},
			wantField: "value",
		},
		{
			name: "실패: 빈 contains 값",
			req: &dto.CreateFieldRuleRequest{
				ConditionField: "Notes", Operator: "contains", Value: "", Action: "Hide", TargetField: "Capacity",
			},
			wantField: "value",
		},
		{
			name: "실패: 날짜로 해석할 수 없는 값",
			req: &dto.CreateFieldRuleRequest{
				ConditionField: "COD", Operator: "<", Value: "next spring", Action: "Hide", TargetField: "Notes",
			},
			wantField: "value",
		},
		{
			name: "실패: Modify 값 누락",
			req: &dto.CreateFieldRuleRequest{
				ConditionField: "Capacity", Operator: ">", Value: "1", Action: "Modify", TargetField: "Notes",
			},
			wantField: "actionValue",
		},
		{
			name: "실패: Modify 값이 선택지에 없음",
			req: &dto.CreateFieldRuleRequest{
				ConditionField: "Capacity", Operator: ">", Value: "1", Action: "Modify",
				TargetField: "Technology Type", ActionValue: strPtr("Geothermal"),
			},
			wantField: "actionValue",
		},
		{
			name: "실패: Modify 값이 숫자가 아님",
			req: &dto.CreateFieldRuleRequest{
				ConditionField: "Notes", Operator: "=", Value: "x", Action: "Modify",
				TargetField: "Capacity", ActionValue: strPtr("lots"),
			},
			wantField: "actionValue",
		},
		{
			name: "실패: 우선순위 범위 초과",
			req: &dto.CreateFieldRuleRequest{
				ConditionField: "Capacity", Operator: ">", Value: "1", Action: "Hide",
				TargetField: "Notes", Priority: intPtr(1001),
			},
			wantField: "priority",
		},
		{
			name: "실패: 알 수 없는 연산자",
			req: &dto.CreateFieldRuleRequest{
				ConditionField: "Capacity", Operator: "~", Value: "1", Action: "Hide", TargetField: "Notes",
			},
			wantField: "operator",
		},
		{
			name: "실패: 존재하지 않는 프로젝트",
			req: &dto.CreateFieldRuleRequest{
				ConditionField: "Capacity", Operator: ">", Value: "1", Action: "Hide",
				TargetField: "Notes", ProjectID: uuidPtr(uuid.New()),
			},
			wantField: "projectId",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env := setupTestEnv(t)
			seedRuleFields(t, env)

			_, err := env.rules.CreateFieldRule(ctx, tc.req)
			require.True(t, response.IsValidation(err), "got %v", err)
			assert.Equal(t, tc.wantField, appErrorField(t, err))

			stored, err := env.rules.ListFieldRules(ctx, &dto.FieldRuleListQuery{IncludeInactive: true})
			require.NoError(t, err)
			assert.Empty(t, stored)
		})
	}

	t.Run("실패: 보관된 필드 참조", func(t *testing.T) {
		env := setupTestEnv(t)
		seedRuleFields(t, env)
		notes, err := env.fields.GetFieldByName(ctx, "Notes")
		require.NoError(t, err)
		require.NoError(t, env.fields.DeleteField(ctx, notes.ID))

		_, err = env.rules.CreateFieldRule(ctx, &dto.CreateFieldRuleRequest{
			ConditionField: "Capacity", Operator: ">", Value: "1", Action: "Hide", TargetField: "Notes",
		})
		require.True(t, response.IsValidation(err))
		assert.Equal(t, "targetField", appErrorField(t, err))
	})
}

func TestFieldRuleService_ListFieldRules_Order(t *testing.T) {
	env := setupTestEnv(t)
	seedRuleFields(t, env)
	ctx := context.Background()

	low := env.mustCreateRule(t, &dto.CreateFieldRuleRequest{
		Name: "low", ConditionField: "Capacity", Operator: ">", Value: "1",
		Action: "Hide", TargetField: "Notes", Priority: intPtr(1),
	})
	time.Sleep(5 * time.Millisecond)
	high := env.mustCreateRule(t, &dto.CreateFieldRuleRequest{
		Name: "high", ConditionField: "Capacity", Operator: ">", Value: "1",
		Action: "Hide", TargetField: "COD", Priority: intPtr(10),
	})
	time.Sleep(5 * time.Millisecond)
	lowLater := env.mustCreateRule(t, &dto.CreateFieldRuleRequest{
		Name: "low later", ConditionField: "Capacity", Operator: ">", Value: "1",
		Action: "Require", TargetField: "Notes", Priority: intPtr(1),
	})
	inactive := env.mustCreateRule(t, &dto.CreateFieldRuleRequest{
		Name: "off", ConditionField: "Capacity", Operator: ">", Value: "1",
		Action: "Require", TargetField: "COD", Priority: intPtr(500), IsActive: boolPtr(false),
	})

	active, err := env.rules.ListFieldRules(ctx, &dto.FieldRuleListQuery{})
	require.NoError(t, err)
	require.Len(t, active, 3)
	assert.Equal(t, []uuid.UUID{high.ID, low.ID, lowLater.ID}, []uuid.UUID{active[0].ID, active[1].ID, active[2].ID})

	all, err := env.rules.ListFieldRules(ctx, &dto.FieldRuleListQuery{IncludeInactive: true})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, inactive.ID, all[0].ID)

	_, err = env.rules.ListFieldRules(ctx, &dto.FieldRuleListQuery{ProjectID: "not-a-uuid"})
	assert.True(t, response.IsValidation(err))
}

func TestFieldRuleService_UpdateFieldRule(t *testing.T) {
	ctx := context.Background()

	t.Run("성공: 우선순위와 활성 여부만 변경", func(t *testing.T) {
		env := setupTestEnv(t)
		seedRuleFields(t, env)
		rule := env.mustCreateRule(t, &dto.CreateFieldRuleRequest{
			ConditionField: "Capacity", Operator: ">", Value: "1", Action: "Hide", TargetField: "Notes",
		})

		updated, err := env.rules.UpdateFieldRule(ctx, rule.ID, &dto.UpdateFieldRuleRequest{
			Priority: intPtr(42),
			IsActive: boolPtr(false),
		})
		require.NoError(t, err)
		assert.Equal(t, 42, updated.Priority)
		assert.False(t, updated.IsActive)
	})

	t.Run("성공: 프로젝트 범위 해제", func(t *testing.T) {
		env := setupTestEnv(t)
		seedRuleFields(t, env)
		project := &domain.Project{Name: "Mesa Solar"}
		require.NoError(t, env.projectRepo.Create(ctx, project))
		rule := env.mustCreateRule(t, &dto.CreateFieldRuleRequest{
			ConditionField: "Capacity", Operator: ">", Value: "1", Action: "Hide", TargetField: "Notes",
			ProjectID: &project.ID,
		})
		require.NotNil(t, rule.ProjectID)

		updated, err := env.rules.UpdateFieldRule(ctx, rule.ID, &dto.UpdateFieldRuleRequest{ClearProjectID: true})
		require.NoError(t, err)
		assert.Nil(t, updated.ProjectID)

		stored, err := env.rules.GetFieldRule(ctx, rule.ID)
		require.NoError(t, err)
		assert.Nil(t, stored.ProjectID)
	})

	t.Run("실패: 프로젝트 지정과 해제를 동시에", func(t *testing.T) {
		env := setupTestEnv(t)
		seedRuleFields(t, env)
		project := &domain.Project{Name: "Mesa Solar"}
		require.NoError(t, env.projectRepo.Create(ctx, project))
		rule := env.mustCreateRule(t, &dto.CreateFieldRuleRequest{
			ConditionField: "Capacity", Operator: ">", Value: "1", Action: "Hide", TargetField: "Notes",
			ProjectID: &project.ID,
		})

		_, err := env.rules.UpdateFieldRule(ctx, rule.ID, &dto.UpdateFieldRuleRequest{
			ProjectID: &project.ID, ClearProjectID: true,
		})
		require.True(t, response.IsValidation(err))
		assert.Equal(t, "projectId", appErrorField(t, err))

		stored, err := env.rules.GetFieldRule(ctx, rule.ID)
		require.NoError(t, err)
		require.NotNil(t, stored.ProjectID)
		assert.Equal(t, project.ID, *stored.ProjectID)
	})

	t.Run("실패: 대상을 조건 필드로 변경", func(t *testing.T) {
		env := setupTestEnv(t)
		seedRuleFields(t, env)
		rule := env.mustCreateRule(t, &dto.CreateFieldRuleRequest{
			ConditionField: "Capacity", Operator: ">", Value: "1", Action: "Hide", TargetField: "Notes",
		})

		_, err := env.rules.UpdateFieldRule(ctx, rule.ID, &dto.UpdateFieldRuleRequest{TargetField: strPtr("Capacity")})
		require.True(t, response.IsValidation(err))

		stored, err := env.rules.GetFieldRule(ctx, rule.ID)
		require.NoError(t, err)
		assert.Equal(t, "Notes", stored.TargetField)
	})

	t.Run("실패: 연산자 변경 후 값 형식 불일치", func(t *testing.T) {
		env := setupTestEnv(t)
		seedRuleFields(t, env)
		rule := env.mustCreateRule(t, &dto.CreateFieldRuleRequest{
			ConditionField: "Technology Type", Operator: "=", Value: "Wind", Action: "Hide", TargetField: "Notes",
		})

		_, err := env.rules.UpdateFieldRule(ctx, rule.ID, &dto.UpdateFieldRuleRequest{Operator: strPtr(">")})
		require.True(t, response.IsValidation(err))
		assert.Equal(t, "operator", appErrorField(t, err))
	})

	t.Run("실패: 우선순위 범위", func(t *testing.T) {
		env := setupTestEnv(t)
		seedRuleFields(t, env)
		rule := env.mustCreateRule(t, &dto.CreateFieldRuleRequest{
			ConditionField: "Capacity", Operator: ">", Value: "1", Action: "Hide", TargetField: "Notes",
		})

		_, err := env.rules.UpdateFieldRule(ctx, rule.ID, &dto.UpdateFieldRuleRequest{Priority: intPtr(-1)})
		require.True(t, response.IsValidation(err))
		assert.Equal(t, "priority", appErrorField(t, err))
	})

	t.Run("실패: 존재하지 않는 규칙", func(t *testing.T) {
		env := setupTestEnv(t)

		_, err := env.rules.UpdateFieldRule(ctx, uuid.New(), &dto.UpdateFieldRuleRequest{Priority: intPtr(1)})
		assert.True(t, response.IsNotFound(err))
	})
}

func TestFieldRuleService_DeleteFieldRule(t *testing.T) {
	env := setupTestEnv(t)
	seedRuleFields(t, env)
	ctx := context.Background()

	rule := env.mustCreateRule(t, &dto.CreateFieldRuleRequest{
		ConditionField: "Capacity", Operator: ">", Value: "1", Action: "Hide", TargetField: "Notes",
	})

	require.NoError(t, env.rules.DeleteFieldRule(ctx, rule.ID))

	_, err := env.rules.GetFieldRule(ctx, rule.ID)
	assert.True(t, response.IsNotFound(err))

	err = env.rules.DeleteFieldRule(ctx, rule.ID)
	assert.True(t, response.IsNotFound(err))

	// the condition field can be renamed once no rule references it
	capacity, err := env.fields.GetFieldByName(ctx, "Capacity")
	require.NoError(t, err)
	_, err = env.fields.UpdateField(ctx, capacity.ID, &dto.UpdateFieldRequest{Name: strPtr("Capacity (MW)")})
	require.NoError(t, err)
}

func uuidPtr(id uuid.UUID) *uuid.UUID { return &id }
