package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/knowledge-engine/textstats/internal/engine"
	"github.com/knowledge-engine/textstats/internal/storage"
)

type Server struct {
	Engine *engine.Engine
	Logger *logrus.Entry
	Router *http.ServeMux
}

func NewServer(eng *engine.Engine, logger *logrus.Entry) *Server {
	s := &Server{
		Engine: eng,
		Logger: logger,
		Router: http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.Router.HandleFunc("/api/v1/tf", s.handleTF)
	s.Router.HandleFunc("/api/v1/idf", s.handleIDF)
	s.Router.HandleFunc("/api/v1/tfidf", s.handleTFIDF)
	s.Router.HandleFunc("/api/v1/compute", s.handleCompute)
	s.Router.HandleFunc("/api/v1/corpora", s.handleCorpora)
	s.Router.HandleFunc("/api/v1/status", s.handleStatus)
}

func (s *Server) Start(addr string) error {
	s.Logger.Infof("Starting API Server on %s", addr)
	return http.ListenAndServe(addr, s.Router)
}

// Requests

// CorpusRequest names the corpus to compute over. Documents wins over Corpus,
// which wins over Text (split on commas).
type CorpusRequest struct {
	Text      string   `json:"text"`
	Documents []string `json:"documents"`
	Corpus    string   `json:"corpus"`
}

type ComputeRequest struct {
	Mode string `json:"mode"`
	Text string `json:"text"`
}

type SaveCorpusRequest struct {
	Name      string   `json:"name"`
	Documents []string `json:"documents"`
	URLs      []string `json:"urls"`
}

// Responses
type ErrorResponse struct {
	Error string `json:"error"`
}

type CorporaResponse struct {
	Names []string `json:"names"`
}

type StatusResponse struct {
	Computations int64  `json:"computations"`
	CorporaSaved int64  `json:"corpora_saved"`
	MatchMode    string `json:"match_mode"`
	IDFMode      string `json:"idf_mode"`
	Uptime       string `json:"uptime"`
}

// Handlers

func (s *Server) handleTF(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Text string `json:"text"`
	}
	if !s.decode(w, r, &req) {
		return
	}

	jsonResponse(w, http.StatusOK, s.Engine.TermFrequencies(req.Text))
}

func (s *Server) handleIDF(w http.ResponseWriter, r *http.Request) {
	corpus, ok := s.corpusFromRequest(w, r)
	if !ok {
		return
	}
	jsonResponse(w, http.StatusOK, s.Engine.InverseDocumentFrequencies(corpus))
}

func (s *Server) handleTFIDF(w http.ResponseWriter, r *http.Request) {
	corpus, ok := s.corpusFromRequest(w, r)
	if !ok {
		return
	}
	jsonResponse(w, http.StatusOK, s.Engine.TFIDF(corpus))
}

func (s *Server) handleCompute(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req ComputeRequest
	if !s.decode(w, r, &req) {
		return
	}

	mode, err := engine.ParseMode(req.Mode)
	if err != nil {
		jsonResponse(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	result, err := s.Engine.Compute(mode, req.Text)
	if err != nil {
		jsonResponse(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	jsonResponse(w, http.StatusOK, result)
}

func (s *Server) handleCorpora(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.getCorpora(w, r)
	case http.MethodPost:
		s.saveCorpus(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) getCorpora(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		names, err := s.Engine.ListCorpora()
		if err != nil {
			s.Logger.WithError(err).Error("Failed to list corpora")
			jsonResponse(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
			return
		}
		jsonResponse(w, http.StatusOK, CorporaResponse{Names: names})
		return
	}

	corpus, err := s.Engine.LoadCorpus(name)
	if err != nil {
		s.corpusError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, corpus)
}

func (s *Server) saveCorpus(w http.ResponseWriter, r *http.Request) {
	var req SaveCorpusRequest
	if !s.decode(w, r, &req) {
		return
	}

	corpus, err := s.Engine.SaveCorpus(r.Context(), req.Name, req.Documents, req.URLs)
	if err != nil {
		s.corpusError(w, err)
		return
	}
	jsonResponse(w, http.StatusCreated, corpus)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	stats := s.Engine.Stats()
	opts := s.Engine.Options()

	jsonResponse(w, http.StatusOK, StatusResponse{
		Computations: stats.Computations,
		CorporaSaved: stats.CorporaSaved,
		MatchMode:    opts.Match.String(),
		IDFMode:      opts.IDF.String(),
		Uptime:       time.Since(stats.StartTime).Round(time.Second).String(),
	})
}

// corpusFromRequest resolves the documents an IDF or TF-IDF request refers to.
func (s *Server) corpusFromRequest(w http.ResponseWriter, r *http.Request) ([]string, bool) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return nil, false
	}

	var req CorpusRequest
	if !s.decode(w, r, &req) {
		return nil, false
	}

	switch {
	case len(req.Documents) > 0:
		return req.Documents, true
	case req.Corpus != "":
		corpus, err := s.Engine.LoadCorpus(req.Corpus)
		if err != nil {
			s.corpusError(w, err)
			return nil, false
		}
		return corpus.Documents, true
	default:
		return engine.SplitCorpus(req.Text), true
	}
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if limit := s.Engine.Config.Server.MaxBodyBytes; limit > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, int64(limit))
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		jsonResponse(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid JSON"})
		return false
	}
	return true
}

func (s *Server) corpusError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		jsonResponse(w, http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, engine.ErrEmptyName), errors.Is(err, engine.ErrEmptyCorpus):
		jsonResponse(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	default:
		s.Logger.WithError(err).Error("Corpus request failed")
		jsonResponse(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}
}

func jsonResponse(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
