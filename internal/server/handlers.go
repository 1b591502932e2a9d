package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ReallyLiri/MacTutorIndex/internal/core"
	"github.com/ReallyLiri/MacTutorIndex/internal/core/graph"
	"github.com/ReallyLiri/MacTutorIndex/internal/core/model"
	"github.com/ReallyLiri/MacTutorIndex/internal/core/selection"
	"github.com/ReallyLiri/MacTutorIndex/internal/source"
)

const maxSearchLimit = 100

type GraphResponse struct {
	Revision string        `json:"revision"`
	Filters  model.Filters `json:"filters"`
	Graph    graph.Data    `json:"graph"`
	Stats    graph.Stats   `json:"stats"`
}

func graphResponse(s *core.Snapshot) GraphResponse {
	return GraphResponse{
		Revision: s.Revision,
		Filters:  s.Filters,
		Graph:    s.Graph,
		Stats:    s.Stats,
	}
}

// fail maps err onto a status code and writes it.
func (s *Server) fail(c *gin.Context, err error, msg string) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, core.ErrInvalidFilters):
		status = http.StatusBadRequest
	case errors.Is(err, source.ErrNotFound):
		status = http.StatusNotFound
	case source.IsUnavailable(err):
		status = http.StatusServiceUnavailable
	}
	_ = c.Error(err)
	c.JSON(status, gin.H{"error": msg, "request_id": GetRequestID(c)})
}

func (s *Server) Health(c *gin.Context) {
	snap := s.Explorer.Snapshot()
	status := "ok"
	if !snap.Fetched {
		status = "degraded"
	}
	c.JSON(http.StatusOK, gin.H{
		"status":   status,
		"revision": snap.Revision,
		"records":  len(snap.Records),
	})
}

func (s *Server) Options(c *gin.Context) {
	snap := s.Explorer.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"revision":  snap.Revision,
		"options":   snap.Options,
		"locations": snap.Tree,
	})
}

type SelectionRequest struct {
	Selected []string `json:"selected"`
}

type ToggleRequest struct {
	Selected []string `json:"selected"`
	Path     string   `json:"path" binding:"required"`
	// Checked forces the new state; without it the click semantics apply.
	Checked *bool `json:"checked"`
}

type SelectionResponse struct {
	Selected []string                 `json:"selected"`
	Expanded []string                 `json:"expanded"`
	Nodes    []selection.StatefulNode `json:"nodes"`
}

func (s *Server) selectionResponse(snap *core.Snapshot, selected selection.Set) SelectionResponse {
	return SelectionResponse{
		Selected: selected.Slice(),
		Expanded: selection.Expand(snap.Tree, selected).Slice(),
		Nodes:    selection.Annotate(snap.Tree, selected),
	}
}

func (s *Server) LocationState(c *gin.Context) {
	var req SelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	snap := s.Explorer.Snapshot()
	c.JSON(http.StatusOK, s.selectionResponse(snap, selection.NewSet(req.Selected...)))
}

func (s *Server) LocationToggle(c *gin.Context) {
	var req ToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	snap := s.Explorer.Snapshot()
	node := snap.Tree.Find(req.Path)
	if node == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown location"})
		return
	}

	selected := selection.NewSet(req.Selected...)
	if req.Checked != nil {
		selected = selection.Toggle(node, selected, *req.Checked)
	} else {
		selected = selection.Click(snap.Tree, node, selected)
	}
	c.JSON(http.StatusOK, s.selectionResponse(snap, selected))
}

func (s *Server) GetFilters(c *gin.Context) {
	snap := s.Explorer.Snapshot()
	c.JSON(http.StatusOK, gin.H{"revision": snap.Revision, "filters": snap.Filters})
}

func (s *Server) PutFilters(c *gin.Context) {
	var f model.Filters
	if err := c.ShouldBindJSON(&f); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	snap, err := s.Explorer.Commit(c.Request.Context(), f)
	if err != nil {
		s.logger.Warn("Failed to commit filters", zap.Error(err))
		s.fail(c, err, "Failed to apply filters")
		return
	}
	c.JSON(http.StatusOK, graphResponse(snap))
}

func (s *Server) Graph(c *gin.Context) {
	c.JSON(http.StatusOK, graphResponse(s.Explorer.Snapshot()))
}

type HighlightRequest struct {
	// Revision, when set, must name the current snapshot.
	Revision string      `json:"revision"`
	Hover    graph.Focus `json:"hover"`
	Selected graph.Focus `json:"selected"`
}

func (s *Server) Highlight(c *gin.Context) {
	var req HighlightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	snap := s.Explorer.Snapshot()
	if req.Revision != "" && req.Revision != snap.Revision {
		c.JSON(http.StatusConflict, gin.H{"error": "Stale revision", "revision": snap.Revision})
		return
	}
	c.JSON(http.StatusOK, graph.Resolve(snap.Graph, req.Hover, req.Selected))
}

type SearchResult struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Img  string `json:"img,omitempty"`
}

func (s *Server) Search(c *gin.Context) {
	limit := s.SearchLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxSearchLimit {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = n
	}

	nodes := graph.Search(s.Explorer.Snapshot().Graph, c.Query("q"), limit)
	results := make([]SearchResult, 0, len(nodes))
	for _, n := range nodes {
		results = append(results, SearchResult{ID: n.ID, Name: n.Name, Img: n.Img})
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

func (s *Server) Record(c *gin.Context) {
	r, err := s.Explorer.Record(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err, "Failed to fetch record")
		return
	}
	c.JSON(http.StatusOK, model.NewRecordView(*r))
}

type ReloadRequest struct {
	Window *model.YearRange `json:"window"`
}

func (s *Server) Reload(c *gin.Context) {
	var req ReloadRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
	}

	var err error
	if req.Window != nil {
		if req.Window.Min > req.Window.Max {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid window"})
			return
		}
		err = s.Explorer.Load(c.Request.Context(), *req.Window)
	} else {
		err = s.Explorer.Reload(c.Request.Context())
	}
	if err != nil {
		s.fail(c, err, "Failed to reload records")
		return
	}
	c.JSON(http.StatusOK, graphResponse(s.Explorer.Snapshot()))
}
