package tracker

import "errors"

var (
	// ErrProjectNotFound is returned when an alias does not name a project.
	ErrProjectNotFound = errors.New("project not found")

	// ErrSubActivityNotFound is returned when an alias does not name a
	// sub-activity of the project in question.
	ErrSubActivityNotFound = errors.New("sub-activity not found")

	// ErrUnknownSubActivity is returned when selecting a sub-activity that
	// does not exist and is not one of the auto-created aliases.
	ErrUnknownSubActivity = errors.New("unknown sub-activity")

	// ErrDuplicateAlias is returned when an alias is already taken.
	ErrDuplicateAlias = errors.New("alias already in use")

	// ErrInvalidAlias is returned when both the alias and the name it
	// defaults to are blank.
	ErrInvalidAlias = errors.New("alias must not be blank")

	// ErrNoCurrentProject is returned when an operation needs a selected project.
	ErrNoCurrentProject = errors.New("no current project selected")

	// ErrSourceMissing is returned when a migration source file does not exist.
	ErrSourceMissing = errors.New("source data file does not exist")

	// ErrSameEnvironment is returned when migrating an environment onto itself.
	ErrSameEnvironment = errors.New("source and target environment are the same")

	// ErrNoVault is returned when an operation needs a backup vault and none is configured.
	ErrNoVault = errors.New("no backup vault configured")
)
