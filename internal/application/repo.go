package application

import (
	"errors"

	"github.com/Jasemalbateni/academybase-sub000/internal/persistence"
	"github.com/Jasemalbateni/academybase-sub000/internal/recurrence"
)

// mapRepoError translates persistence sentinels into application sentinels.
func mapRepoError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, persistence.ErrNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, persistence.ErrDuplicate) {
		return ErrAlreadyExists
	}
	if errors.Is(err, persistence.ErrForeignKeyViolation) {
		return ErrNotFound
	}
	return err
}

// branchRecurrence resolves a stored branch row into its weekly recurrence.
// Unknown weekday names in the stored configuration are dropped here, so a
// branch with only bad names simply generates nothing.
func branchRecurrence(branch persistence.Branch) recurrence.Recurrence {
	return recurrence.Recurrence{
		BranchID:   branch.ID,
		BranchName: branch.Name,
		Days:       recurrence.ParseWeekdays(branch.Days),
		StartTime:  branch.StartTime,
		EndTime:    branch.EndTime,
	}
}
