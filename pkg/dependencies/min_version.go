// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package dependencies

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/mod/semver"
)

var ErrVersionTooOld = errors.New("version below supported minimum")

// Canonical turns "0.87.2" or "v0.87.2" into a semver string.
func Canonical(version string) (string, error) {
	v := strings.TrimSpace(version)
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return "", fmt.Errorf("invalid version %q", version)
	}
	return semver.Canonical(v), nil
}

// CheckVersionIsOverMin fails when [version] of [dependencyName] is older
// than [minVersion]. An empty [minVersion] accepts any version.
func CheckVersionIsOverMin(dependencyName string, version string, minVersion string) error {
	if minVersion == "" {
		return nil
	}
	current, err := Canonical(version)
	if err != nil {
		return fmt.Errorf("%s: %w", dependencyName, err)
	}
	minimum, err := Canonical(minVersion)
	if err != nil {
		return fmt.Errorf("minimum %s version: %w", dependencyName, err)
	}
	// version has to be at least the minimum version
	if semver.Compare(current, minimum) == -1 {
		return fmt.Errorf("%w: minimum version of %s is %s, current version is %s",
			ErrVersionTooOld, dependencyName, minimum, current)
	}
	return nil
}
