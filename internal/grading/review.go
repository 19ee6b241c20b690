package grading

import (
	"fmt"

	"github.com/almanar-institute/grades-api/internal/models"
	appErrors "github.com/almanar-institute/grades-api/pkg/errors"
)

// CanEdit reports whether raw grade inputs may be mutated in the given state.
// Approved records are locked until explicitly unapproved.
func CanEdit(state models.ReviewState) bool {
	return state != models.ReviewApproved
}

// MarkReviewed advances pending → reviewed.
func MarkReviewed(state models.ReviewState) (models.ReviewState, error) {
	if state != models.ReviewPending {
		return state, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("cannot mark %s record as reviewed", state))
	}
	return models.ReviewReviewed, nil
}

// MarkApproved advances reviewed → approved.
func MarkApproved(state models.ReviewState) (models.ReviewState, error) {
	if state != models.ReviewReviewed {
		return state, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("cannot approve %s record", state))
	}
	return models.ReviewApproved, nil
}

// Unapprove reverts approved → reviewed, the only backward transition.
func Unapprove(state models.ReviewState) (models.ReviewState, error) {
	if state != models.ReviewApproved {
		return state, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("cannot unapprove %s record", state))
	}
	return models.ReviewReviewed, nil
}
