// Package version reports the build version of gatekit binaries.
package version
