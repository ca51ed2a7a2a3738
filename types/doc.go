// Package types provides core types shared across the cardiology agent service.
// This package has ZERO dependencies on other project packages to avoid circular
// imports. All other packages should import types from here.
package types
