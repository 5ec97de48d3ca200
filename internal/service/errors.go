// SPDX-License-Identifier: Apache-2.0

package service

import "errors"

var (
	// ErrContractNotFound is returned when an operation targets a contract
	// id or number that does not exist locally.
	ErrContractNotFound = errors.New("contract was not found")

	// ErrContractInvalid is returned when a contract fails the
	// publishability rules before any registry call is attempted.
	ErrContractInvalid = errors.New("contract failed validation")

	// ErrPushFailed wraps the registry error after the failure has been
	// recorded on the contract and in the sync log.
	ErrPushFailed = errors.New("push to registry failed")

	// ErrPullFailed is returned when the pull batch could not even start,
	// e.g. the registry listing itself failed. Per-record failures do not
	// raise it; they are counted in the PullResult instead.
	ErrPullFailed = errors.New("pull from registry failed")
)
