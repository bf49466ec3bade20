package repository

import "errors"

var (
	// ErrCacheAccess is returned when the text cache backend cannot be reached or read.
	ErrCacheAccess = errors.New("cache access failed")

	// ErrGoalNotFound is returned when a goal does not exist or belongs to another user.
	ErrGoalNotFound = errors.New("goal not found")

	// ErrGoalTypeNotFound is returned when a goal type does not exist or is not deletable by the caller.
	ErrGoalTypeNotFound = errors.New("goal type not found")

	// ErrProfileNotFound is returned when the user has no profile.
	ErrProfileNotFound = errors.New("profile not found")

	// ErrMediaNotFound is returned when a gallery item does not exist or belongs to another profile.
	ErrMediaNotFound = errors.New("media not found")

	// ErrObjectNotFound is returned when an object is missing from storage.
	ErrObjectNotFound = errors.New("object not found")

	// ErrBucketNotFound is returned when the configured bucket does not exist.
	ErrBucketNotFound = errors.New("bucket not found")
)
