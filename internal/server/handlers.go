package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/matzehuels/stagegraph/pkg/dag"
	"github.com/matzehuels/stagegraph/pkg/dag/validate"
	errs "github.com/matzehuels/stagegraph/pkg/errors"
	graphio "github.com/matzehuels/stagegraph/pkg/io"
)

const maxBodyBytes = 1 << 20

type addNodeRequest struct {
	Label string `json:"label"`
}

type connectRequest struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

type deleteSelectionRequest struct {
	Nodes []string `json:"nodes"`
	Edges []string `json:"edges"`
}

type nodeResponse struct {
	ID       string       `json:"id"`
	Label    string       `json:"label"`
	Position dag.Position `json:"position"`
}

type edgeResponse struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
}

type addNodeResponse struct {
	Node   nodeResponse    `json:"node"`
	Report validate.Report `json:"report"`
}

type connectResponse struct {
	Edge   edgeResponse    `json:"edge"`
	Report validate.Report `json:"report"`
}

type errorResponse struct {
	Code  errs.Code `json:"code"`
	Error string    `json:"error"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) getGraph(w http.ResponseWriter, r *http.Request) {
	s.writeGraph(w, s.ctrl.Graph())
}

func (s *Server) getValidation(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.ctrl.Report())
}

func (s *Server) addNode(w http.ResponseWriter, r *http.Request) {
	var req addNodeRequest
	if !decode(w, r, &req) {
		return
	}

	n, snap, err := s.ctrl.AddNode(r.Context(), req.Label)
	if err != nil {
		s.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, addNodeResponse{
		Node:   nodeResponse{ID: n.ID, Label: n.Label, Position: n.Position},
		Report: snap.Report,
	})
}

func (s *Server) connect(w http.ResponseWriter, r *http.Request) {
	var req connectRequest
	if !decode(w, r, &req) {
		return
	}

	e, snap, err := s.ctrl.Connect(r.Context(), req.Source, req.Target)
	if err != nil {
		s.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, connectResponse{
		Edge:   edgeResponse{ID: e.ID, Source: e.Source, Target: e.Target},
		Report: snap.Report,
	})
}

func (s *Server) deleteSelection(w http.ResponseWriter, r *http.Request) {
	var req deleteSelectionRequest
	if !decode(w, r, &req) {
		return
	}

	snap := s.ctrl.DeleteSelection(r.Context(), req.Nodes, req.Edges)
	respondJSON(w, http.StatusOK, snap.Report)
}

func (s *Server) runLayout(w http.ResponseWriter, r *http.Request) {
	snap := s.ctrl.RunLayout(r.Context())
	s.writeGraph(w, snap.Graph)
}

func (s *Server) exportDOT(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
	_, _ = w.Write([]byte(graphio.ToDOT(s.ctrl.Graph())))
}

func (s *Server) exportSVG(w http.ResponseWriter, r *http.Request) {
	svg, err := graphio.RenderSVG(r.Context(), graphio.ToDOT(s.ctrl.Graph()))
	if err != nil {
		s.respondError(w, errs.Wrap(errs.ErrCodeInternal, err, "render svg"))
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(svg)
}

func (s *Server) writeGraph(w http.ResponseWriter, g *dag.Graph) {
	data, err := graphio.MarshalJSON(g)
	if err != nil {
		s.respondError(w, errs.Wrap(errs.ErrCodeInternal, err, "encode graph"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// decode reads a JSON body into v, answering 400 on failure.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{
			Code:  errs.ErrCodeInvalidInput,
			Error: "invalid request body: " + err.Error(),
		})
		return false
	}
	return true
}

// respondError maps rejected commands to 422 and anything else to 500.
func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	s.respondError(w, errs.New(errs.ErrCodeNotFound, "no route for %s %s", r.Method, r.URL.Path))
}

func (s *Server) respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	var e *errs.Error
	if errors.As(err, &e) {
		switch e.Code {
		case errs.ErrCodeInvalidLabel, errs.ErrCodeSelfConnection, errs.ErrCodeUnknownNode:
			status = http.StatusUnprocessableEntity
		case errs.ErrCodeNotFound:
			status = http.StatusNotFound
		}
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}

	code := errs.GetCode(err)
	if code == "" {
		code = errs.ErrCodeInternal
	}
	respondJSON(w, status, errorResponse{Code: code, Error: errs.UserMessage(err)})
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
