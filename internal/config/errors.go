package config

import "errors"

var (
	ErrInvalidStorageConfigs    = errors.New("invalid storage configs")
	ErrInvalidRegistryConfigs   = errors.New("invalid registry configs")
	ErrInvalidCredentialConfigs = errors.New("invalid registry credential configs")
	ErrInvalidResilienceConfigs = errors.New("invalid resilience configs")
)
