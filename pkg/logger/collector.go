package logger

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

type Publisher interface {
	PublishMessage(ctx context.Context, topic string, payload interface{}) error
}

type CollectionConfig struct {
	TimeInterval   time.Duration // flush interval (e.g., 30s)
	CountThreshold int           // max unique logs before flush (e.g., 100)
	Topic          string        // topic to send aggregated logs
	Publisher      Publisher     // interface to send aggregated logs
}

type AggregatedLogEntry struct {
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Fields    map[string]interface{} `json:"fields"`
	Caller    string                 `json:"caller"`
	Count     int                    `json:"count"`
	FirstSeen time.Time              `json:"first_seen"`
	LastSeen  time.Time              `json:"last_seen"`
}

// Field keys excluded from the dedup hash and the published payload.
// Birth data identifies a person; aggregated logs leave the process.
var sensitiveFieldKeys = map[string]struct{}{
	"name":       {},
	"birth_date": {},
	"birth_time": {},
	"latitude":   {},
	"longitude":  {},
}

type LogCollector struct {
	config *CollectionConfig
	logMap map[string]*AggregatedLogEntry
	mutex  sync.RWMutex
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewLogCollector(config *CollectionConfig) *LogCollector {
	ctx, cancel := context.WithCancel(context.Background())

	collector := &LogCollector{
		config: config,
		logMap: make(map[string]*AggregatedLogEntry),
		ctx:    ctx,
		cancel: cancel,
	}

	collector.wg.Add(1)
	go collector.flushLoop()
	return collector
}

// AddLog records one log occurrence, deduplicating by level+message+caller+fields.
func (c *LogCollector) AddLog(level, msg string, fields map[string]interface{}, caller string) {
	clean := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		if _, sensitive := sensitiveFieldKeys[k]; sensitive {
			continue
		}
		clean[k] = v
	}

	key := c.hashEntry(level, msg, caller, clean)
	now := time.Now()

	c.mutex.Lock()
	if e, ok := c.logMap[key]; ok {
		e.Count++
		e.LastSeen = now
	} else {
		c.logMap[key] = &AggregatedLogEntry{
			Level:     level,
			Message:   msg,
			Fields:    clean,
			Caller:    caller,
			Count:     1,
			FirstSeen: now,
			LastSeen:  now,
		}
	}
	size := len(c.logMap)
	c.mutex.Unlock()

	if c.config.CountThreshold > 0 && size >= c.config.CountThreshold {
		c.Flush()
	}
}

// Flush publishes all aggregated entries and resets the map.
func (c *LogCollector) Flush() {
	c.mutex.Lock()
	if len(c.logMap) == 0 {
		c.mutex.Unlock()
		return
	}
	entries := make([]*AggregatedLogEntry, 0, len(c.logMap))
	for _, e := range c.logMap {
		entries = append(entries, e)
	}
	c.logMap = make(map[string]*AggregatedLogEntry)
	c.mutex.Unlock()

	if c.config.Publisher == nil || c.config.Topic == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = c.config.Publisher.PublishMessage(ctx, c.config.Topic, entries)
}

func (c *LogCollector) flushLoop() {
	defer c.wg.Done()

	interval := c.config.TimeInterval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.ctx.Done():
			c.Flush()
			return
		case <-ticker.C:
			c.Flush()
		}
	}
}

// Close stops the flush loop after a final flush.
func (c *LogCollector) Close() {
	c.cancel()
	c.wg.Wait()
}

func (c *LogCollector) hashEntry(level, msg, caller string, fields map[string]interface{}) string {
	b, _ := json.Marshal(fields)
	sum := sha256.Sum256([]byte(level + "|" + msg + "|" + caller + "|" + string(b)))
	return fmt.Sprintf("%x", sum[:8])
}
