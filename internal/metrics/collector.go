package metrics

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// BusinessMetricsCollector collects catalogue gauges periodically
type BusinessMetricsCollector struct {
	db      *gorm.DB
	metrics *Metrics
	logger  *zap.Logger
	ticker  *time.Ticker
	done    chan bool
}

// NewBusinessMetricsCollector creates a new collector; interval defaults to one minute
func NewBusinessMetricsCollector(db *gorm.DB, metrics *Metrics, logger *zap.Logger, interval time.Duration) *BusinessMetricsCollector {
	if interval <= 0 {
		interval = time.Minute
	}
	return &BusinessMetricsCollector{
		db:      db,
		metrics: metrics,
		logger:  logger,
		ticker:  time.NewTicker(interval),
		done:    make(chan bool),
	}
}

// Start begins collecting metrics
func (c *BusinessMetricsCollector) Start() {
	go func() {
		c.collect()

		for {
			select {
			case <-c.ticker.C:
				c.collect()
			case <-c.done:
				return
			}
		}
	}()
}

// Stop stops the collector
func (c *BusinessMetricsCollector) Stop() {
	c.ticker.Stop()
	c.done <- true
}

// collect gathers business metrics
func (c *BusinessMetricsCollector) collect() {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("Panic in business metrics collection",
				zap.Any("panic", r),
			)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var typeCount int64
	if err := c.db.WithContext(ctx).Table("field_types").Count(&typeCount).Error; err != nil {
		c.logger.Error("Failed to count field types", zap.Error(err))
	} else {
		c.metrics.SetFieldTypesTotal(typeCount)
	}

	var fieldCount int64
	if err := c.db.WithContext(ctx).Table("fields").Where("status <> ?", "Archived").Count(&fieldCount).Error; err != nil {
		c.logger.Error("Failed to count fields", zap.Error(err))
	} else {
		c.metrics.SetFieldsTotal(fieldCount)
	}

	var ruleCount int64
	if err := c.db.WithContext(ctx).Table("field_rules").Where("is_active = ?", true).Count(&ruleCount).Error; err != nil {
		c.logger.Error("Failed to count field rules", zap.Error(err))
	} else {
		c.metrics.SetFieldRulesTotal(ruleCount)
	}
}
