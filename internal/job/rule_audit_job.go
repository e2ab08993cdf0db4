package job

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"project-field-api/internal/client"
	"project-field-api/internal/domain"
	"project-field-api/internal/metrics"
	"project-field-api/internal/repository"
)

const auditTimeout = 30 * time.Second

// Stale reasons
const (
	ReasonMissing  = "field does not exist"
	ReasonArchived = "field is archived"
)

// ReportUploader stores audit reports; satisfied by client.S3Client
type ReportUploader interface {
	GenerateFileKey(entityType, fileExt string) (string, error)
	UploadFile(ctx context.Context, key string, file io.Reader, contentType string) (string, error)
	DeleteFile(ctx context.Context, key string) error
}

// StaleRule is an active rule that references a missing or archived field
type StaleRule struct {
	RuleID uuid.UUID `json:"ruleId"`
	Name   string    `json:"name,omitempty"`
	Field  string    `json:"field"`
	Role   string    `json:"role"`
	Reason string    `json:"reason"`
}

// AuditReport is the outcome of one audit run
type AuditReport struct {
	GeneratedAt  time.Time   `json:"generatedAt"`
	RulesScanned int         `json:"rulesScanned"`
	StaleRules   []StaleRule `json:"staleRules"`
	ReportKey    string      `json:"-"`
}

// RuleAuditJob finds active rules whose condition or target field is gone or archived.
// Evaluation already skips such rules; the audit makes them visible.
// Only the report of the latest audit is kept in storage.
type RuleAuditJob struct {
	ruleRepo  repository.FieldRuleRepository
	fieldRepo repository.FieldRepository
	uploader  ReportUploader
	metrics   *metrics.Metrics
	logger    *zap.Logger

	mu         sync.Mutex
	lastReport string
}

// NewRuleAuditJob creates a new RuleAuditJob instance; uploader may be nil
func NewRuleAuditJob(
	ruleRepo repository.FieldRuleRepository,
	fieldRepo repository.FieldRepository,
	uploader ReportUploader,
	m *metrics.Metrics,
	logger *zap.Logger,
) *RuleAuditJob {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RuleAuditJob{
		ruleRepo:  ruleRepo,
		fieldRepo: fieldRepo,
		uploader:  uploader,
		metrics:   m,
		logger:    logger,
	}
}

// Run executes the audit; it satisfies cron.Job
func (j *RuleAuditJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), auditTimeout)
	defer cancel()

	if _, err := j.Audit(ctx); err != nil {
		j.logger.Error("Rule audit failed", zap.Error(err))
	}
}

// Audit scans every active rule and records the stale ones
func (j *RuleAuditJob) Audit(ctx context.Context) (*AuditReport, error) {
	j.logger.Info("Starting rule integrity audit")

	rules, err := j.ruleRepo.List(ctx, repository.FieldRuleFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list active rules: %w", err)
	}

	names := make([]string, 0, len(rules)*2)
	seen := make(map[string]struct{}, len(rules)*2)
	for _, rule := range rules {
		for _, name := range []string{rule.ConditionField, rule.TargetField} {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}

	fields, err := j.fieldRepo.FindByNames(ctx, names)
	if err != nil {
		return nil, fmt.Errorf("failed to load referenced fields: %w", err)
	}
	byName := make(map[string]*domain.Field, len(fields))
	for _, f := range fields {
		byName[f.Name] = f
	}

	report := &AuditReport{
		GeneratedAt:  time.Now().UTC(),
		RulesScanned: len(rules),
		StaleRules:   []StaleRule{},
	}
	staleIDs := make(map[uuid.UUID]struct{})

	for _, rule := range rules {
		refs := []struct{ role, name string }{
			{"conditionField", rule.ConditionField},
			{"targetField", rule.TargetField},
		}
		for _, ref := range refs {
			if ref.role == "targetField" && ref.name == rule.ConditionField {
				continue
			}
			reason := staleReason(byName[ref.name])
			if reason == "" {
				continue
			}

			staleIDs[rule.ID] = struct{}{}
			report.StaleRules = append(report.StaleRules, StaleRule{
				RuleID: rule.ID,
				Name:   rule.Name,
				Field:  ref.name,
				Role:   ref.role,
				Reason: reason,
			})
			j.logger.Warn("Stale field rule",
				zap.String("rule_id", rule.ID.String()),
				zap.String("field_name", ref.name),
				zap.String("role", ref.role),
				zap.String("reason", reason),
			)
		}
	}

	j.metrics.SetStaleRules(len(staleIDs))

	if j.uploader != nil {
		j.storeReport(ctx, report)
	}

	j.logger.Info("Rule integrity audit completed",
		zap.Int("rules_scanned", report.RulesScanned),
		zap.Int("stale_rules", len(staleIDs)),
	)
	return report, nil
}

func staleReason(f *domain.Field) string {
	switch {
	case f == nil:
		return ReasonMissing
	case f.Status == domain.FieldStatusArchived:
		return ReasonArchived
	default:
		return ""
	}
}

// storeReport uploads a report with stale rules and removes the previous one.
// A clean audit only removes the previous report.
func (j *RuleAuditJob) storeReport(ctx context.Context, report *AuditReport) {
	j.mu.Lock()
	defer j.mu.Unlock()

	previous := j.lastReport
	if len(report.StaleRules) > 0 {
		key, err := j.upload(ctx, report)
		if err != nil {
			// the gauge and logs already carry the result
			j.logger.Error("Failed to upload audit report", zap.Error(err))
			return
		}
		report.ReportKey = key
		j.lastReport = key
	}

	if previous == "" {
		return
	}
	if err := j.uploader.DeleteFile(ctx, previous); err != nil {
		j.logger.Warn("Failed to delete previous audit report", zap.String("key", previous), zap.Error(err))
		if len(report.StaleRules) == 0 {
			// retried after the next clean audit
			return
		}
	}
	if len(report.StaleRules) == 0 {
		j.lastReport = ""
	}
}

func (j *RuleAuditJob) upload(ctx context.Context, report *AuditReport) (string, error) {
	body, err := json.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("failed to encode audit report: %w", err)
	}

	key, err := j.uploader.GenerateFileKey(client.EntityAudit, ".json")
	if err != nil {
		return "", err
	}
	if _, err := j.uploader.UploadFile(ctx, key, bytes.NewReader(body), "application/json"); err != nil {
		return "", err
	}
	return key, nil
}
