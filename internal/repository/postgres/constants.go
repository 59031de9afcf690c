package postgres

import (
	"fmt"
	"time"
)

const (
	poolHealthCheckPeriod = time.Minute
	poolMaxConnLifetime   = time.Hour
	poolMaxConnIdleTime   = 30 * time.Minute
	dbPingTimeout         = 5 * time.Second

	errGroupNotFound = "group not found"
	errUserNotFound  = "user not found"
	errRightNotFound = "right not found"

	errFailedParseDatabaseConfigFmt  = "failed to parse database config: %w"
	errFailedCreateConnectionPoolFmt = "failed to create connection pool: %w"
	errFailedPingDatabaseFmt         = "failed to ping database: %w"

	errFailedCreateGroupFmt = "failed to create group: %w"
	errFailedGetGroupFmt    = "failed to get group: %w"
	errFailedListGroupsFmt  = "failed to list groups: %w"
	errFailedScanGroupFmt   = "failed to scan group: %w"
	errIterateGroupsFmt     = "error iterating groups: %w"
	errFailedDeleteGroupFmt = "failed to delete group: %w"

	errFailedCreateUserFmt = "failed to create user: %w"
	errFailedGetUserFmt    = "failed to get user: %w"
	errFailedDeleteUserFmt = "failed to delete user: %w"

	errFailedCreateRightFmt = "failed to create right: %w"
	errFailedGetRightFmt    = "failed to get right: %w"
	errFailedFindRightFmt   = "failed to find right: %w"
	errFailedListRightsFmt  = "failed to list rights: %w"
	errFailedScanRightFmt   = "failed to scan right: %w"
	errIterateRightsFmt     = "error iterating rights: %w"
	errFailedDeleteRightFmt = "failed to delete right: %w"
)

func errFailedParseDatabaseConfig(err error) error {
	return fmt.Errorf(errFailedParseDatabaseConfigFmt, err)
}

func errFailedCreateConnectionPool(err error) error {
	return fmt.Errorf(errFailedCreateConnectionPoolFmt, err)
}

func errFailedPingDatabase(err error) error {
	return fmt.Errorf(errFailedPingDatabaseFmt, err)
}
