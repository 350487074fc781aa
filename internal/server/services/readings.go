package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/glucosync/internal/glucose"
	sm "github.com/dmitrijs2005/glucosync/internal/server/models"
	"github.com/dmitrijs2005/glucosync/internal/server/repositories/repomanager"
)

// ErrInvalidReading is returned for submissions that fail validation.
var ErrInvalidReading = errors.New("invalid reading")

// DefaultSource is recorded when a submission names none.
const DefaultSource = "manual"

// AddReadingInput is the raw addReadingFromUrl query.
type AddReadingInput struct {
	Name      string
	Reading   string
	Units     string
	Comment   string
	SnackPass string
	Source    string
}

type ReadingService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewReadingService(db *sql.DB, m repomanager.RepositoryManager) *ReadingService {
	return &ReadingService{db: db, repomanager: m}
}

// Add validates in and stores it as a new reading.
func (s *ReadingService) Add(ctx context.Context, in AddReadingInput) (*sm.Reading, error) {
	r, err := parseInput(in)
	if err != nil {
		return nil, err
	}

	stored, err := s.repomanager.Readings(s.db).Create(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("error creating reading: %w", err)
	}
	return stored, nil
}

// List returns readings for name, newest first; "" lists all.
func (s *ReadingService) List(ctx context.Context, name string) ([]sm.Reading, error) {
	rs, err := s.repomanager.Readings(s.db).ListByName(ctx, strings.TrimSpace(name))
	if err != nil {
		return nil, fmt.Errorf("error listing readings: %w", err)
	}
	return rs, nil
}

func parseInput(in AddReadingInput) (*sm.Reading, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidReading)
	}

	value, err := strconv.ParseFloat(strings.Replace(strings.TrimSpace(in.Reading), ",", ".", 1), 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) || value <= 0 {
		return nil, fmt.Errorf("%w: reading must be a positive number", ErrInvalidReading)
	}

	unit := glucose.DefaultUnit
	if strings.TrimSpace(in.Units) != "" {
		var ok bool
		if unit, ok = glucose.ParseUnit(in.Units); !ok {
			return nil, fmt.Errorf("%w: unknown units %q", ErrInvalidReading, in.Units)
		}
	}

	snack := false
	if in.SnackPass != "" {
		if snack, err = strconv.ParseBool(in.SnackPass); err != nil {
			return nil, fmt.Errorf("%w: snackPass must be true or false", ErrInvalidReading)
		}
	}

	r := &sm.Reading{
		Name:      name,
		Value:     value,
		Units:     string(unit),
		SnackPass: snack,
		Source:    DefaultSource,
	}
	if c := strings.TrimSpace(in.Comment); c != "" {
		r.Comment = &c
	}
	if src := strings.TrimSpace(in.Source); src != "" {
		r.Source = src
	}
	return r, nil
}
