package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"project-field-api/internal/dto"
)

// MockFieldTypeService is a mock implementation of FieldTypeService
type MockFieldTypeService struct {
	ListFieldTypesFunc  func(ctx context.Context) ([]*dto.FieldTypeResponse, error)
	CreateFieldTypeFunc func(ctx context.Context, req *dto.CreateFieldTypeRequest) (*dto.FieldTypeResponse, error)
	GetFieldTypeFunc    func(ctx context.Context, typeID uuid.UUID) (*dto.FieldTypeResponse, error)
	UpdateFieldTypeFunc func(ctx context.Context, typeID uuid.UUID, req *dto.UpdateFieldTypeRequest) (*dto.UpdateFieldTypeResponse, error)
	DeleteFieldTypeFunc func(ctx context.Context, typeID uuid.UUID) error
}

func (m *MockFieldTypeService) ListFieldTypes(ctx context.Context) ([]*dto.FieldTypeResponse, error) {
	if m.ListFieldTypesFunc != nil {
		return m.ListFieldTypesFunc(ctx)
	}
	return nil, nil
}

func (m *MockFieldTypeService) CreateFieldType(ctx context.Context, req *dto.CreateFieldTypeRequest) (*dto.FieldTypeResponse, error) {
	if m.CreateFieldTypeFunc != nil {
		return m.CreateFieldTypeFunc(ctx, req)
	}
	return nil, nil
}

func (m *MockFieldTypeService) GetFieldType(ctx context.Context, typeID uuid.UUID) (*dto.FieldTypeResponse, error) {
	if m.GetFieldTypeFunc != nil {
		return m.GetFieldTypeFunc(ctx, typeID)
	}
	return nil, nil
}

func (m *MockFieldTypeService) UpdateFieldType(ctx context.Context, typeID uuid.UUID, req *dto.UpdateFieldTypeRequest) (*dto.UpdateFieldTypeResponse, error) {
	if m.UpdateFieldTypeFunc != nil {
		return m.UpdateFieldTypeFunc(ctx, typeID, req)
	}
	return nil, nil
}

func (m *MockFieldTypeService) DeleteFieldType(ctx context.Context, typeID uuid.UUID) error {
	if m.DeleteFieldTypeFunc != nil {
		return m.DeleteFieldTypeFunc(ctx, typeID)
	}
	return nil
}

func (m *MockFieldTypeService) SeedSystemTypes(ctx context.Context) (int, error) {
	return 0, nil
}

// MockFieldService is a mock implementation of FieldService
type MockFieldService struct {
	CreateFieldFunc    func(ctx context.Context, req *dto.CreateFieldRequest) (*dto.FieldResponse, error)
	GetFieldFunc       func(ctx context.Context, fieldID uuid.UUID) (*dto.FieldResponse, error)
	GetFieldByNameFunc func(ctx context.Context, name string) (*dto.FieldResponse, error)
	ListFieldsFunc     func(ctx context.Context, query *dto.FieldListQuery) (*dto.FieldListResponse, error)
	UpdateFieldFunc    func(ctx context.Context, fieldID uuid.UUID, req *dto.UpdateFieldRequest) (*dto.FieldResponse, error)
	DeleteFieldFunc    func(ctx context.Context, fieldID uuid.UUID) error
	GetChildrenFunc    func(ctx context.Context, name string) ([]*dto.FieldResponse, error)
	GetHierarchyFunc   func(ctx context.Context) (dto.FieldHierarchyResponse, error)
	CountByTypeFunc    func(ctx context.Context, typeName string) (int64, error)
}

func (m *MockFieldService) CreateField(ctx context.Context, req *dto.CreateFieldRequest) (*dto.FieldResponse, error) {
	if m.CreateFieldFunc != nil {
		return m.CreateFieldFunc(ctx, req)
	}
	return nil, nil
}

func (m *MockFieldService) GetField(ctx context.Context, fieldID uuid.UUID) (*dto.FieldResponse, error) {
	if m.GetFieldFunc != nil {
		return m.GetFieldFunc(ctx, fieldID)
	}
	return nil, nil
}

func (m *MockFieldService) GetFieldByName(ctx context.Context, name string) (*dto.FieldResponse, error) {
	if m.GetFieldByNameFunc != nil {
		return m.GetFieldByNameFunc(ctx, name)
	}
	return nil, nil
}

func (m *MockFieldService) ListFields(ctx context.Context, query *dto.FieldListQuery) (*dto.FieldListResponse, error) {
	if m.ListFieldsFunc != nil {
		return m.ListFieldsFunc(ctx, query)
	}
	return &dto.FieldListResponse{}, nil
}

func (m *MockFieldService) UpdateField(ctx context.Context, fieldID uuid.UUID, req *dto.UpdateFieldRequest) (*dto.FieldResponse, error) {
	if m.UpdateFieldFunc != nil {
		return m.UpdateFieldFunc(ctx, fieldID, req)
	}
	return nil, nil
}

func (m *MockFieldService) DeleteField(ctx context.Context, fieldID uuid.UUID) error {
	if m.DeleteFieldFunc != nil {
		return m.DeleteFieldFunc(ctx, fieldID)
	}
	return nil
}

func (m *MockFieldService) GetChildren(ctx context.Context, name string) ([]*dto.FieldResponse, error) {
	if m.GetChildrenFunc != nil {
		return m.GetChildrenFunc(ctx, name)
	}
	return []*dto.FieldResponse{}, nil
}

func (m *MockFieldService) GetHierarchy(ctx context.Context) (dto.FieldHierarchyResponse, error) {
	if m.GetHierarchyFunc != nil {
		return m.GetHierarchyFunc(ctx)
	}
	return dto.FieldHierarchyResponse{}, nil
}

func (m *MockFieldService) CountByType(ctx context.Context, typeName string) (int64, error) {
	if m.CountByTypeFunc != nil {
		return m.CountByTypeFunc(ctx, typeName)
	}
	return 0, nil
}

// MockFieldRuleService is a mock implementation of FieldRuleService
type MockFieldRuleService struct {
	CreateFieldRuleFunc func(ctx context.Context, req *dto.CreateFieldRuleRequest) (*dto.FieldRuleResponse, error)
	GetFieldRuleFunc    func(ctx context.Context, ruleID uuid.UUID) (*dto.FieldRuleResponse, error)
	ListFieldRulesFunc  func(ctx context.Context, query *dto.FieldRuleListQuery) ([]*dto.FieldRuleResponse, error)
	UpdateFieldRuleFunc func(ctx context.Context, ruleID uuid.UUID, req *dto.UpdateFieldRuleRequest) (*dto.FieldRuleResponse, error)
	DeleteFieldRuleFunc func(ctx context.Context, ruleID uuid.UUID) error
}

func (m *MockFieldRuleService) CreateFieldRule(ctx context.Context, req *dto.CreateFieldRuleRequest) (*dto.FieldRuleResponse, error) {
	if m.CreateFieldRuleFunc != nil {
		return m.CreateFieldRuleFunc(ctx, req)
	}
	return nil, nil
}

func (m *MockFieldRuleService) GetFieldRule(ctx context.Context, ruleID uuid.UUID) (*dto.FieldRuleResponse, error) {
	if m.GetFieldRuleFunc != nil {
		return m.GetFieldRuleFunc(ctx, ruleID)
	}
	return nil, nil
}

func (m *MockFieldRuleService) ListFieldRules(ctx context.Context, query *dto.FieldRuleListQuery) ([]*dto.FieldRuleResponse, error) {
	if m.ListFieldRulesFunc != nil {
		return m.ListFieldRulesFunc(ctx, query)
	}
	return []*dto.FieldRuleResponse{}, nil
}

func (m *MockFieldRuleService) UpdateFieldRule(ctx context.Context, ruleID uuid.UUID, req *dto.UpdateFieldRuleRequest) (*dto.FieldRuleResponse, error) {
	if m.UpdateFieldRuleFunc != nil {
		return m.UpdateFieldRuleFunc(ctx, ruleID, req)
	}
	return nil, nil
}

func (m *MockFieldRuleService) DeleteFieldRule(ctx context.Context, ruleID uuid.UUID) error {
	if m.DeleteFieldRuleFunc != nil {
		return m.DeleteFieldRuleFunc(ctx, ruleID)
	}
	return nil
}

// MockEvaluationService is a mock implementation of EvaluationService
type MockEvaluationService struct {
	EvaluateFunc       func(ctx context.Context, req *dto.EvaluateRequest) (*dto.EvaluateResponse, error)
	ValidateRecordFunc func(ctx context.Context, req *dto.EvaluateRequest) (*dto.ValidateRecordResponse, error)
}

func (m *MockEvaluationService) Evaluate(ctx context.Context, req *dto.EvaluateRequest) (*dto.EvaluateResponse, error) {
	if m.EvaluateFunc != nil {
		return m.EvaluateFunc(ctx, req)
	}
	return &dto.EvaluateResponse{States: map[string]*dto.DerivedStateResponse{}, Warnings: []dto.RuleWarningResponse{}}, nil
}

func (m *MockEvaluationService) ValidateRecord(ctx context.Context, req *dto.EvaluateRequest) (*dto.ValidateRecordResponse, error) {
	if m.ValidateRecordFunc != nil {
		return m.ValidateRecordFunc(ctx, req)
	}
	return &dto.ValidateRecordResponse{Valid: true}, nil
}

// MockSchemaExportService is a mock implementation of SchemaExportService
type MockSchemaExportService struct {
	ExportSchemaFunc func(ctx context.Context) (*dto.SchemaExportResponse, error)
}

func (m *MockSchemaExportService) ExportSchema(ctx context.Context) (*dto.SchemaExportResponse, error) {
	if m.ExportSchemaFunc != nil {
		return m.ExportSchemaFunc(ctx)
	}
	return &dto.SchemaExportResponse{}, nil
}

// envelope mirrors the response envelope for decoding in tests
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Field   string `json:"field"`
		Details string `json:"details"`
	} `json:"error"`
}

func newTestEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func performRequest(t *testing.T, r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	env := decodeEnvelope(t, w)
	require.True(t, env.Success, w.Body.String())
	require.NoError(t, json.Unmarshal(env.Data, out))
}
