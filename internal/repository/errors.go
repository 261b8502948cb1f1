package repository

import "errors"

var (
	ErrNotFound         = errors.New("entity not found")
	ErrAlreadyExists    = errors.New("entity already exists")
	ErrSaveFailed       = errors.New("save failed")
	ErrConnectionFailed = errors.New("database connection failed")
)
