package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"vaultmind/internal/detect"
	"vaultmind/internal/memory"
	"vaultmind/internal/storage"
	"vaultmind/internal/surfacer"
)

// RememberRequest stores one insight. Concept is derived from the content
// when blank; Importance defaults to DefaultImportance.
type RememberRequest struct {
	Content    string   `json:"content" validate:"required"`
	Concept    string   `json:"concept,omitempty" validate:"max=200"`
	Category   string   `json:"category,omitempty" validate:"max=64"`
	Importance *float64 `json:"importance,omitempty" validate:"omitempty,gte=0,lte=1"`
}

// RememberResponse carries the id of the stored insight.
type RememberResponse struct {
	ID int64 `json:"id"`
}

// RecallRequest looks up insights by concept. DaysBack of 0 means no limit.
type RecallRequest struct {
	Concept  string `json:"concept" validate:"required"`
	DaysBack int    `json:"days_back" validate:"gte=0"`
}

// SimilarRequest asks for notes similar to Path.
type SimilarRequest struct {
	Path      string   `json:"path" validate:"required"`
	Threshold *float64 `json:"threshold,omitempty" validate:"omitempty,gte=0,lte=1"`
	Limit     int      `json:"limit,omitempty" validate:"gte=0,lte=500"`
}

// SimilarNote is one similar note.
type SimilarNote struct {
	Path  string  `json:"path"`
	Title string  `json:"title"`
	Score float64 `json:"score"`
}

// SimilarResponse lists similar notes, most similar first.
type SimilarResponse struct {
	Path      string        `json:"path"`
	Threshold float64       `json:"threshold"`
	Matches   []SimilarNote `json:"matches"`
}

// DuplicatesRequest sets the duplicate threshold, defaulting to the configured one.
type DuplicatesRequest struct {
	Threshold *float64 `json:"threshold,omitempty" validate:"omitempty,gt=0,lte=1"`
}

// BacklinksRequest asks for missing links around Path.
type BacklinksRequest struct {
	Path      string   `json:"path" validate:"required"`
	Threshold *float64 `json:"threshold,omitempty" validate:"omitempty,gte=0,lte=1"`
	Limit     int      `json:"limit,omitempty" validate:"gte=0,lte=500"`
}

// BacklinksResponse holds link suggestions and unlinked title mentions.
type BacklinksResponse struct {
	Path        string              `json:"path"`
	Suggestions []detect.Suggestion `json:"suggestions"`
	Mentions    []detect.Mention    `json:"mentions"`
}

// SurfaceRequest bounds how many forgotten insights come back. Concepts, when
// set, limits them to insights about those concepts or concepts related to
// them.
type SurfaceRequest struct {
	MaxResults int      `json:"max_results,omitempty" validate:"gte=0,lte=500"`
	Concepts   []string `json:"concepts,omitempty" validate:"omitempty,max=20,dive,required,max=200"`
}

// SurfaceResponse lists resurfaced insights and the links between them.
type SurfaceResponse struct {
	Insights      []surfacer.Scored     `json:"insights"`
	Relationships []memory.Relationship `json:"relationships"`
}

// GapsRequest tunes the knowledge gap report. MinRecalls of 0 selects
// surfacer.DefaultShallowRecalls; Limit of 0 selects DefaultGapLimit.
type GapsRequest struct {
	MinRecalls int `json:"min_recalls,omitempty" validate:"gte=0,lte=1000"`
	Limit      int `json:"limit,omitempty" validate:"gte=0,lte=100"`
}

// GapsResponse lists knowledge gaps, shallow concepts before disconnected notes.
type GapsResponse struct {
	Gaps  []surfacer.Gap `json:"gaps"`
	Count int            `json:"count"`
}

// ReviewRequest tunes the review schedule. A nil MinImportance selects
// surfacer.DefaultReviewImportance; Limit of 0 selects DefaultReviewLimit.
type ReviewRequest struct {
	MinImportance *float64 `json:"min_importance,omitempty" validate:"omitempty,gte=0,lte=1"`
	Limit         int      `json:"limit,omitempty" validate:"gte=0,lte=100"`
}

// ReviewResponse lists concepts to revisit, highest priority first.
type ReviewResponse struct {
	Reviews []surfacer.Review `json:"reviews"`
}

// SearchResponse lists insights matching a filter.
type SearchResponse struct {
	Insights []storage.InsightRecord `json:"insights"`
	Count    int                     `json:"count"`
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// validateRequest runs struct validation and reports the first failing field.
func (e *engine) validateRequest(req any) error {
	err := e.validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &ValidationError{Message: err.Error(), Err: err}
	}
	fe := verrs[0]
	return &ValidationError{Field: fe.Field(), Message: fieldMessage(fe)}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
