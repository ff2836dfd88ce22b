// Package version checks that the API server can hand claims with a custom dataSourceRef to a
// populator.
package version

import (
	"errors"
	"fmt"

	"github.com/blang/semver/v4"
	"k8s.io/client-go/discovery"
)

// Minimum is the first release with AnyVolumeDataSource enabled by default.
var Minimum = semver.Version{Major: 1, Minor: 24}

var ErrUnsupported = errors.New("kubernetes version does not support volume populators")

// Parse reads a server git version such as "v1.29.3+k3s1". Only major and minor are kept.
func Parse(gitVersion string) (semver.Version, error) {
	v, err := semver.ParseTolerant(gitVersion)
	if err != nil {
		return semver.Version{}, fmt.Errorf("could not parse server version %q: %w", gitVersion, err)
	}
	return semver.Version{Major: v.Major, Minor: v.Minor}, nil
}

// Check asks the server for its version. The version is returned together with
// ErrUnsupported when it is older than Minimum.
func Check(client discovery.ServerVersionInterface) (semver.Version, error) {
	info, err := client.ServerVersion()
	if err != nil {
		return semver.Version{}, fmt.Errorf("could not get server version: %w", err)
	}
	v, err := Parse(info.GitVersion)
	if err != nil {
		return semver.Version{}, err
	}
	if v.LT(Minimum) {
		return v, fmt.Errorf("%w: %s < %s", ErrUnsupported, v, Minimum)
	}
	return v, nil
}
