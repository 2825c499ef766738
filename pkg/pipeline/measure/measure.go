package measure

import (
	"maps"
	"sync"
)

type DefaultMeasure struct {
	mu     sync.RWMutex
	stages map[string]Metric
}

func NewDefaultMeasure() *DefaultMeasure {
	return &DefaultMeasure{
		stages: make(map[string]Metric),
	}
}

// AddMetric returns the metric of the stage name, creating it when needed.
func (m *DefaultMeasure) AddMetric(name string) Metric {
	m.mu.Lock()
	defer m.mu.Unlock()
	if mt, ok := m.stages[name]; ok {
		return mt
	}
	mt := &DefaultMetric{}
	m.stages[name] = mt

	return mt
}

func (m *DefaultMeasure) GetMetric(name string) Metric {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.stages[name]
}

func (m *DefaultMeasure) AllMetrics() map[string]Metric {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return maps.Clone(m.stages)
}

var _ Measure = (*DefaultMeasure)(nil)
