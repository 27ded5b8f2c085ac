package model

import "errors"

// Common errors used across the application
var (
	// Store errors
	ErrNotLoaded       = errors.New("player data not loaded")
	ErrPlayerNotFound  = errors.New("player not found")
	ErrSyncFailed      = errors.New("remote synchronization failed")
	ErrInvalidSnapshot = errors.New("invalid player snapshot")

	// Auth errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUsernameExists     = errors.New("username already exists")
	ErrUsernameRequired   = errors.New("username is required")
	ErrNotAuthenticated   = errors.New("not logged in")

	// Character errors
	ErrCharacterExists    = errors.New("character already exists")
	ErrNoCharacter        = errors.New("player has no character")
	ErrNameRequired       = errors.New("character name is required")
	ErrNameTooShort       = errors.New("character name must be at least 2 characters")
	ErrNameTooLong        = errors.New("character name must be at most 20 characters")
	ErrTooManyAccessories = errors.New("at most 3 accessories may be selected")
	ErrInvalidPersonality = errors.New("unknown personality type")
	ErrInvalidDecoration  = errors.New("unknown decoration kind")

	// Score errors
	ErrUnknownGameMode = errors.New("unknown game mode")
	ErrInvalidScore    = errors.New("score must be a finite non-negative number")

	// Navigation errors
	ErrUnknownPage = errors.New("unknown page")
)
