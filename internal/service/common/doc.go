// Package common holds helpers shared by several services.
//
// It provides a lightweight gRPC client wrapper around the AlarmService and
// the health service, applying a default timeout to every call.
//
//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common
