package constants

import "time"

const (
	RequestTimeout  = 30 * time.Second
	ShutdownTimeout = 5 * time.Second
)

const (
	DBMaxOpenConns    = 10
	DBMaxIdleConns    = 5
	DBConnMaxLifetime = 1 * time.Hour
)

const (
	// UploadMaxBytes bounds a single upload request body.
	UploadMaxBytes = 32 << 20
)
