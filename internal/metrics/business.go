package metrics

import "time"

// IncrementFieldCreated increments field creation counter
func (m *Metrics) IncrementFieldCreated() {
	if m == nil {
		return
	}
	m.safeExecute("IncrementFieldCreated", func() {
		m.FieldCreatedTotal.Inc()
	})
}

// IncrementFieldArchived increments field archive counter
func (m *Metrics) IncrementFieldArchived() {
	if m == nil {
		return
	}
	m.safeExecute("IncrementFieldArchived", func() {
		m.FieldArchivedTotal.Inc()
	})
}

// IncrementFieldRuleCreated increments rule creation counter
func (m *Metrics) IncrementFieldRuleCreated() {
	if m == nil {
		return
	}
	m.safeExecute("IncrementFieldRuleCreated", func() {
		m.FieldRuleCreatedTotal.Inc()
	})
}

// IncrementFieldRuleDeleted increments rule deletion counter
func (m *Metrics) IncrementFieldRuleDeleted() {
	if m == nil {
		return
	}
	m.safeExecute("IncrementFieldRuleDeleted", func() {
		m.FieldRuleDeletedTotal.Inc()
	})
}

// SetFieldTypesTotal sets total field types gauge
func (m *Metrics) SetFieldTypesTotal(count int64) {
	m.safeExecute("SetFieldTypesTotal", func() {
		m.FieldTypesTotal.Set(float64(count))
	})
}

// SetFieldsTotal sets total non-archived fields gauge
func (m *Metrics) SetFieldsTotal(count int64) {
	m.safeExecute("SetFieldsTotal", func() {
		m.FieldsTotal.Set(float64(count))
	})
}

// SetFieldRulesTotal sets total active rules gauge
func (m *Metrics) SetFieldRulesTotal(count int64) {
	m.safeExecute("SetFieldRulesTotal", func() {
		m.FieldRulesTotal.Set(float64(count))
	})
}

// RecordEvaluation records one evaluation pass and the number of rules it skipped
func (m *Metrics) RecordEvaluation(mode string, duration time.Duration, skipped int) {
	if m == nil {
		return
	}
	m.safeExecute("RecordEvaluation", func() {
		m.EvaluationsTotal.WithLabelValues(mode).Inc()
		m.EvaluationDuration.Observe(duration.Seconds())
		if skipped > 0 {
			m.RuleSkipsTotal.Add(float64(skipped))
		}
	})
}

// SetStaleRules sets the stale rule gauge
func (m *Metrics) SetStaleRules(count int) {
	if m == nil {
		return
	}
	m.safeExecute("SetStaleRules", func() {
		m.StaleRules.Set(float64(count))
	})
}

// RecordSchemaExport counts a schema export attempt
func (m *Metrics) RecordSchemaExport(err error) {
	if m == nil {
		return
	}
	m.safeExecute("RecordSchemaExport", func() {
		status := "success"
		if err != nil {
			status = "error"
		}
		m.SchemaExportsTotal.WithLabelValues(status).Inc()
	})
}
