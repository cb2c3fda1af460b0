package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/hafly/toolkit/internal/infrastructure/monitoring"
	"github.com/hafly/toolkit/internal/shared/types"
)

var (
	ErrInvalidToolID   = errors.New("invalid tool ID format")
	ErrServiceNotFound = errors.New("service not found")
	ErrToolNotFound    = errors.New("tool not found")
	ErrDuplicate       = errors.New("service already registered")
)

// Provider implements one service
type Provider interface {
	Definition() types.Service
	Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error)
}

type entry struct {
	provider Provider
	def      types.Service
	tools    map[string]struct{}
}

// Registry manages service discovery and execution
type Registry struct {
	mu       sync.RWMutex
	services map[string]*entry
	logger   *zap.Logger
	metrics  *monitoring.Metrics
}

// NewRegistry creates a registry. Both arguments may be nil.
func NewRegistry(logger *zap.Logger, metrics *monitoring.Metrics) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		services: make(map[string]*entry),
		logger:   logger,
		metrics:  metrics,
	}
}

// Register adds a provider
func (r *Registry) Register(provider Provider) error {
	def := provider.Definition()
	if def.ID == "" {
		return fmt.Errorf("service ID cannot be empty")
	}

	tools := make(map[string]struct{}, len(def.Tools))
	for _, tool := range def.Tools {
		tools[tool.ID] = struct{}{}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.services[def.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicate, def.ID)
	}
	r.services[def.ID] = &entry{provider: provider, def: def, tools: tools}
	r.logger.Debug("service registered", zap.String("service", def.ID), zap.Int("tools", len(def.Tools)))
	return nil
}

// Unregister removes a provider
func (r *Registry) Unregister(serviceID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.services, serviceID)
}

// Get returns the provider for serviceID
func (r *Registry) Get(serviceID string) (Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.services[serviceID]
	if !ok {
		return nil, false
	}
	return e.provider, true
}

// List returns service definitions sorted by id, optionally filtered
func (r *Registry) List(category *types.Category) []types.Service {
	r.mu.RLock()
	defer r.mu.RUnlock()

	services := make([]types.Service, 0, len(r.services))
	for _, e := range r.services {
		if category == nil || e.def.Category == *category {
			services = append(services, e.def)
		}
	}
	sort.Slice(services, func(i, j int) bool { return services[i].ID < services[j].ID })
	return services
}

// Discover ranks services by keyword relevance to intent
func (r *Registry) Discover(intent string, limit int) []types.Service {
	type scored struct {
		service types.Service
		score   float64
	}

	intent = strings.ToLower(intent)
	var results []scored
	for _, def := range r.List(nil) {
		if score := relevance(intent, def); score > 0 {
			results = append(results, scored{service: def, score: score})
		}
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].score > results[j].score })

	if limit <= 0 || limit > len(results) {
		limit = len(results)
	}
	out := make([]types.Service, 0, limit)
	for _, res := range results[:limit] {
		out = append(out, res.service)
	}
	return out
}

// Execute routes toolID to its provider
func (r *Registry) Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	serviceID, _, ok := strings.Cut(toolID, ".")
	if !ok || serviceID == "" {
		return nil, fmt.Errorf("%w: %s", ErrInvalidToolID, toolID)
	}

	r.mu.RLock()
	e, found := r.services[serviceID]
	r.mu.RUnlock()
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrServiceNotFound, serviceID)
	}
	if _, declared := e.tools[toolID]; !declared {
		return nil, fmt.Errorf("%w: %s", ErrToolNotFound, toolID)
	}
	if params == nil {
		params = map[string]interface{}{}
	}

	timer := monitoring.NewTimer(r.metrics, serviceID, strings.TrimPrefix(toolID, serviceID+"."))
	result, err := e.provider.Execute(ctx, toolID, params, appCtx)
	switch {
	case err != nil:
		timer.Stop("error")
	case result != nil && result.Success:
		timer.Stop("success")
	default:
		timer.Stop("failure")
	}

	if err != nil {
		r.logger.Warn("tool call error", zap.String("tool", toolID), zap.Error(err))
	}
	return result, err
}

// Stats returns registry statistics
func (r *Registry) Stats() map[string]interface{} {
	r.mu.RLock()
	defer r.mu.RUnlock()

	totalTools := 0
	categories := make(map[string]int)
	for _, e := range r.services {
		totalTools += len(e.def.Tools)
		categories[string(e.def.Category)]++
	}
	return map[string]interface{}{
		"total_services": len(r.services),
		"total_tools":    totalTools,
		"categories":     categories,
	}
}

func relevance(intent string, service types.Service) float64 {
	score := 0.0
	if strings.Contains(intent, service.ID) || strings.Contains(intent, strings.ToLower(service.Name)) {
		score += 10
	}
	for _, word := range strings.Fields(strings.ToLower(service.Description)) {
		if len(word) > 3 && strings.Contains(intent, word) {
			score += 5
		}
	}
	for _, capability := range service.Capabilities {
		if strings.Contains(intent, strings.ReplaceAll(strings.ToLower(capability), "_", " ")) {
			score += 3
		}
	}
	for _, tool := range service.Tools {
		if strings.Contains(intent, strings.ToLower(tool.Name)) {
			score += 4
		}
	}
	if strings.Contains(intent, string(service.Category)) {
		score += 2
	}
	return score
}
