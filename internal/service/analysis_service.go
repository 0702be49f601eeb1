package service

import (
	"context"
	"errors"

	"github.com/doerhub/doerhub-backend/internal/textanalysis"
	"github.com/google/uuid"
)

var ErrNotTextDeliverable = errors.New("deliverable has no text content")

// AnalysisReport bundles both text heuristics.
type AnalysisReport struct {
	AI         textanalysis.AIReport         `json:"ai"`
	Plagiarism textanalysis.PlagiarismReport `json:"plagiarism"`
	WordCount  int                           `json:"word_count"`
}

// AnalysisService runs the heuristic text checks.
type AnalysisService struct {
	projects *ProjectService
}

// NewAnalysisService creates a new AnalysisService.
func NewAnalysisService(projects *ProjectService) *AnalysisService {
	return &AnalysisService{projects: projects}
}

// AnalyzeText runs both heuristics on free text.
func (s *AnalysisService) AnalyzeText(text string) *AnalysisReport {
	return &AnalysisReport{
		AI:         textanalysis.DetectAI(text),
		Plagiarism: textanalysis.CheckPlagiarism(text),
		WordCount:  textanalysis.WordCount(text),
	}
}

// AnalyzeDeliverable runs both heuristics on a text deliverable the caller
// can access.
func (s *AnalysisService) AnalyzeDeliverable(ctx context.Context, deliverableID uuid.UUID) (*AnalysisReport, error) {
	d, err := s.projects.Deliverable(ctx, deliverableID)
	if err != nil {
		return nil, err
	}
	if d.TextContent == nil || *d.TextContent == "" {
		return nil, ErrNotTextDeliverable
	}
	return s.AnalyzeText(*d.TextContent), nil
}
