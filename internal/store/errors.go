package store

import "errors"

var (
	ErrNotFound        = errors.New("record not found")
	ErrAdminExists     = errors.New("admin account already exists")
	ErrSettingsMissing = errors.New("settings not configured")
)
