// Package v1 wires the HTTP API: assistant sessions and chat, plus the
// insight report endpoints backing the dashboard.
package v1

import (
	"net/http"
	"strconv"
	"sync"

	"github.com/labstack/echo/v5"

	"github.com/vendora/vendora/assistant"
	"github.com/vendora/vendora/assistant/confirm"
	"github.com/vendora/vendora/insights"
	"github.com/vendora/vendora/plugin/llm"
	"github.com/vendora/vendora/plugin/productindex"
	"github.com/vendora/vendora/server/profile"
	"github.com/vendora/vendora/store"
)

// APIV1Service carries the dependencies for all v1 routes.
type APIV1Service struct {
	Profile  *profile.Profile
	Store    *store.Store
	Engine   *insights.Engine
	Registry *assistant.Registry
	Index    *productindex.Index
	LLM      *llm.Client

	// gates holds one confirmation gate per assistant session.
	mu    sync.Mutex
	gates map[string]*confirm.Gate
}

func NewAPIV1Service(p *profile.Profile, st *store.Store, eng *insights.Engine, reg *assistant.Registry, idx *productindex.Index, client *llm.Client) *APIV1Service {
	return &APIV1Service{
		Profile:  p,
		Store:    st,
		Engine:   eng,
		Registry: reg,
		Index:    idx,
		LLM:      client,
		gates:    make(map[string]*confirm.Gate),
	}
}

// Register attaches all v1 routes.
func (s *APIV1Service) Register(e *echo.Echo) {
	s.registerAssistantRoutes(e)
	s.registerInsightRoutes(e)
}

// gateFor returns the confirmation gate for a session, creating it on first
// use. Gates are per-session so a pending action in one conversation never
// leaks into another.
func (s *APIV1Service) gateFor(sessionUID string) *confirm.Gate {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.gates[sessionUID]
	if !ok {
		g = confirm.NewGate(s.Registry)
		s.gates[sessionUID] = g
	}
	return g
}

func (s *APIV1Service) dropGate(sessionUID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.gates, sessionUID)
}

// resolveStoreID reads the tenant store from the X-Store-ID header. Single
// tenant deployments can omit it and get store 1.
func resolveStoreID(c *echo.Context) (int32, error) {
	h := c.Request().Header.Get("X-Store-ID")
	if h == "" {
		return 1, nil
	}
	id, err := strconv.ParseInt(h, 10, 32)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid X-Store-ID header")
	}
	return int32(id), nil
}
