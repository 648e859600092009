package server

import (
	"bytes"
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/hupe1980/dnaclass"
)

type predictRequest struct {
	Sequence string `json:"sequence"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// ModelInfo is the /api/model response.
type ModelInfo struct {
	Classes        []string       `json:"classes"`
	ClassCounts    map[string]int `json:"class_counts"`
	VocabularySize int            `json:"vocabulary_size"`
	K              int            `json:"k"`
	Stats          dnaclass.Stats `json:"stats"`
}

type indexPage struct {
	Sequence   string
	Prediction *dnaclass.Prediction
	Error      string
	Classes    []string
	Records    int
	Features   int
	K          int
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	stats := s.clf.Stats()
	page := indexPage{
		Sequence: r.URL.Query().Get("sequence"),
		Classes:  s.clf.Classes(),
		Records:  stats.Records,
		Features: stats.Features,
		K:        stats.K,
	}

	if strings.TrimSpace(page.Sequence) != "" {
		p, err := s.clf.Predict(r.Context(), page.Sequence)
		if err != nil {
			page.Error = "prediction failed"
		} else {
			page.Prediction = p
		}
	}

	var buf bytes.Buffer
	if err := s.pages.ExecuteTemplate(&buf, "index.html", page); err != nil {
		s.opts.logger.ErrorContext(r.Context(), "render index", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	seq, err := s.readSequence(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(seq) == "" {
		s.writeError(w, http.StatusBadRequest, "sequence must not be empty")
		return
	}

	p, err := s.clf.Predict(r.Context(), seq)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "prediction failed")
		return
	}
	s.writeJSON(w, http.StatusOK, p)
}

// readSequence takes the sequence from a JSON body, a form body or the
// query string, in that order.
func (s *Server) readSequence(r *http.Request) (string, error) {
	if r.Method != http.MethodPost {
		return r.URL.Query().Get("sequence"), nil
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/json":
		body, err := io.ReadAll(io.LimitReader(r.Body, s.opts.maxBodyBytes+1))
		if err != nil {
			return "", errors.New("failed to read body")
		}
		if int64(len(body)) > s.opts.maxBodyBytes {
			return "", errors.New("request body too large")
		}
		var req predictRequest
		if err := s.opts.codec.Unmarshal(body, &req); err != nil {
			return "", errors.New("invalid JSON body")
		}
		return req.Sequence, nil
	default:
		r.Body = http.MaxBytesReader(nil, r.Body, s.opts.maxBodyBytes)
		if err := r.ParseForm(); err != nil {
			return "", errors.New("invalid form body")
		}
		return r.FormValue("sequence"), nil
	}
}

func (s *Server) handleModel(w http.ResponseWriter, _ *http.Request) {
	stats := s.clf.Stats()
	s.writeJSON(w, http.StatusOK, ModelInfo{
		Classes:        s.clf.Classes(),
		ClassCounts:    stats.ClassCounts,
		VocabularySize: s.clf.Vocabulary().Len(),
		K:              s.clf.Vocabulary().K(),
		Stats:          stats,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "ok\n")
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := s.opts.codec.Marshal(v)
	if err != nil {
		s.opts.logger.Error("encode response", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(body)
	_, _ = w.Write([]byte{'\n'})
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}
