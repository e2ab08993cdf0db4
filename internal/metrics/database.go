package metrics

import (
	"database/sql"
	"strings"
	"time"
)

// UpdateDBStats publishes a connection pool snapshot.
// sql.DBStats wait figures are cumulative, so only the growth since the previous snapshot is added.
func (m *Metrics) UpdateDBStats(stats sql.DBStats) {
	if m == nil {
		return
	}
	m.safeExecute("UpdateDBStats", func() {
		m.DBConnectionsOpen.Set(float64(stats.OpenConnections))
		m.DBConnectionsInUse.Set(float64(stats.InUse))
		m.DBConnectionsIdle.Set(float64(stats.Idle))
		m.DBConnectionsMax.Set(float64(stats.MaxOpenConnections))

		m.poolMu.Lock()
		defer m.poolMu.Unlock()
		// a reopened pool restarts its counters
		if stats.WaitCount < m.lastPool.WaitCount || stats.WaitDuration < m.lastPool.WaitDuration {
			m.lastPool = sql.DBStats{}
		}
		m.DBConnectionWaitTotal.Add(float64(stats.WaitCount - m.lastPool.WaitCount))
		m.DBConnectionWaitDuration.Add((stats.WaitDuration - m.lastPool.WaitDuration).Seconds())
		m.lastPool = stats
	})
}

// RecordDBQuery records the duration of one gorm statement against a table
func (m *Metrics) RecordDBQuery(operation, table string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.safeExecute("RecordDBQuery", func() {
		operation = strings.ToLower(operation)
		if table == "" {
			table = "raw"
		}
		m.DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())

		if err != nil {
			m.DBQueryErrors.WithLabelValues(operation, table).Inc()
		}
	})
}
