package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/glucosync/internal/common"
	"github.com/dmitrijs2005/glucosync/internal/glucose"
	sm "github.com/dmitrijs2005/glucosync/internal/server/models"
	"github.com/dmitrijs2005/glucosync/internal/server/services"
)

const maxBody = 1 << 16

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"service": "glucosync", "status": "ok"})
}

type passwordRequest struct {
	Password string `json:"password"`
}

type passwordResponse struct {
	Success   bool   `json:"success"`
	Token     string `json:"token,omitempty"`
	ExpiresIn int64  `json:"expiresIn,omitempty"`
	Message   string `json:"message,omitempty"`
}

// handleValidatePassword handles POST /validatePassword. expiresIn is in
// milliseconds.
func (s *Server) handleValidatePassword(w http.ResponseWriter, r *http.Request) {
	var req passwordRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody)).Decode(&req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	tok, err := s.auth.ValidatePassword(r.Context(), req.Password)
	if errors.Is(err, common.ErrAuthRejected) {
		respondJSON(w, http.StatusUnauthorized, passwordResponse{Message: "invalid password"})
		return
	}
	if err != nil {
		s.logger.Error(r.Context(), "issue token", "error", err)
		respondError(w, "failed to issue token", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, passwordResponse{
		Success:   true,
		Token:     tok.Value,
		ExpiresIn: tok.ExpiresIn.Milliseconds(),
	})
}

type verifyRequest struct {
	Token string `json:"token"`
}

func (s *Server) handleVerifyToken(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody)).Decode(&req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"valid": s.auth.VerifyToken(req.Token)})
}

type timestampDTO struct {
	Seconds     int64 `json:"_seconds"`
	Nanoseconds int64 `json:"_nanoseconds"`
}

type glucoseLevelDTO struct {
	GlucoseLevel float64 `json:"glucoseLevel"`
	Color        string  `json:"color"`
}

type readingDTO struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Reading      float64         `json:"reading"`
	Units        string          `json:"units"`
	Comment      *string         `json:"comment,omitempty"`
	SnackPass    bool            `json:"snackPass"`
	Source       string          `json:"source"`
	Timestamp    timestampDTO    `json:"timestamp"`
	GlucoseLevel glucoseLevelDTO `json:"glucoseLevel"`
}

type readingsResponse struct {
	Result        string       `json:"result"`
	TotalReadings int          `json:"totalReadings"`
	Readings      []readingDTO `json:"readings"`
}

func toDTO(r sm.Reading) readingDTO {
	unit, _ := glucose.ParseUnit(r.Units)
	mmol := unit.ToMmol(r.Value)

	return readingDTO{
		ID:        r.ID,
		Name:      r.Name,
		Reading:   r.Value,
		Units:     string(unit),
		Comment:   r.Comment,
		SnackPass: r.SnackPass,
		Source:    r.Source,
		Timestamp: timestampDTO{
			Seconds:     r.CreatedAt.Unix(),
			Nanoseconds: int64(r.CreatedAt.Nanosecond()),
		},
		GlucoseLevel: glucoseLevelDTO{
			GlucoseLevel: mmol,
			Color:        glucose.Classify(mmol).Color(),
		},
	}
}

// handleReadings handles GET /readings?name=.
func (s *Server) handleReadings(w http.ResponseWriter, r *http.Request) {
	rs, err := s.readings.List(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		s.logger.Error(r.Context(), "list readings", "error", err)
		respondError(w, "failed to list readings", http.StatusInternalServerError)
		return
	}

	out := readingsResponse{Result: "success", TotalReadings: len(rs), Readings: make([]readingDTO, 0, len(rs))}
	for _, m := range rs {
		out.Readings = append(out.Readings, toDTO(m))
	}
	respondJSON(w, http.StatusOK, out)
}

type addedData struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Reading float64 `json:"reading"`
	Units   string  `json:"units"`
}

type addResponse struct {
	Result  string     `json:"result"`
	Message string     `json:"message"`
	Data    *addedData `json:"data,omitempty"`
}

// handleAddReading handles GET /addReadingFromUrl with the reading in the
// query string.
func (s *Server) handleAddReading(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	stored, err := s.readings.Add(r.Context(), services.AddReadingInput{
		Name:      q.Get("name"),
		Reading:   q.Get("reading"),
		Units:     q.Get("units"),
		Comment:   q.Get("comment"),
		SnackPass: q.Get("snackPass"),
		Source:    q.Get("source"),
	})
	if errors.Is(err, services.ErrInvalidReading) {
		respondJSON(w, http.StatusBadRequest, addResponse{Result: "error", Message: err.Error()})
		return
	}
	if err != nil {
		s.logger.Error(r.Context(), "add reading", "error", err)
		respondJSON(w, http.StatusInternalServerError, addResponse{Result: "error", Message: "failed to store reading"})
		return
	}

	s.logger.Info(r.Context(), "reading added", "id", stored.ID, "name", stored.Name)

	respondJSON(w, http.StatusOK, addResponse{
		Result:  "success",
		Message: "Reading added",
		Data: &addedData{
			ID:      stored.ID,
			Name:    stored.Name,
			Reading: stored.Value,
			Units:   stored.Units,
		},
	})
}
